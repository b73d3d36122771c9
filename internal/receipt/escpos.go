package receipt

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ESC/POS command bytes.
const (
	esc = 0x1B
	gs  = 0x1D
	lf  = 0x0A
)

const (
	alignLeft   = 0
	alignCenter = 1
)

// Thermal printers cannot print the rupee sign in code page 437.
var rupeeReplacer = strings.NewReplacer("₹", "Rs.")

// escposDoc builds an ESC/POS byte stream. Text is transcoded to code page
// 437 before it is measured, so column padding counts printed cells.
type escposDoc struct {
	buf   bytes.Buffer
	width int
	enc   *encoding.Encoder
}

func newEscposDoc(width int) *escposDoc {
	if width <= 0 {
		width = 32
	}
	d := &escposDoc{width: width, enc: encoding.ReplaceUnsupported(charmap.CodePage437.NewEncoder())}
	d.buf.Write([]byte{esc, '@'})
	return d
}

func (d *escposDoc) encode(s string) string {
	out, _, err := transform.String(d.enc, rupeeReplacer.Replace(s))
	if err != nil {
		return "?"
	}
	return out
}

func (d *escposDoc) align(a byte) *escposDoc {
	d.buf.Write([]byte{esc, 'a', a})
	return d
}

func (d *escposDoc) bold(on bool) *escposDoc {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{esc, 'E', b})
	return d
}

func (d *escposDoc) text(s string) *escposDoc {
	d.buf.WriteString(d.encode(s))
	d.buf.WriteByte(lf)
	return d
}

func (d *escposDoc) separator() *escposDoc {
	d.buf.WriteString(strings.Repeat("-", d.width))
	d.buf.WriteByte(lf)
	return d
}

// keyValue prints key on the left and value flush right. A key too long for
// the line is cut so the value stays in its column.
func (d *escposDoc) keyValue(key, value string) *escposDoc {
	k, v := d.encode(key), d.encode(value)
	if room := d.width - len(v) - 1; len(k) > room {
		k = k[:max(room, 0)]
	}
	spaces := d.width - len(k) - len(v)
	if spaces < 1 {
		spaces = 1
	}
	d.buf.WriteString(k)
	d.buf.WriteString(strings.Repeat(" ", spaces))
	d.buf.WriteString(v)
	d.buf.WriteByte(lf)
	return d
}

func (d *escposDoc) itemLine(qty int64, name, total string) *escposDoc {
	return d.keyValue(fmt.Sprintf("%dx %s", qty, name), total)
}

func (d *escposDoc) feed(n int) *escposDoc {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(lf)
	}
	return d
}

func (d *escposDoc) cut() *escposDoc {
	d.buf.Write([]byte{gs, 'V', 0x01})
	return d
}

func (d *escposDoc) bytes() []byte {
	return d.buf.Bytes()
}
