package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"pharmapos/domain"
)

// Columns is the expected CSV layout, header row optional.
var Columns = []string{"name", "manufacturer", "batch_no", "expiry_date", "quantity", "price"}

// ReadMedicines parses medicine rows from r. Rows without a name or with a
// malformed quantity or price are skipped and counted.
func ReadMedicines(r io.Reader) ([]domain.MedicineInput, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var (
		out     []domain.MedicineInput
		skipped int
		first   = true
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped++
				continue
			}
			return out, skipped, err
		}
		if first {
			first = false
			if len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "name") {
				continue
			}
		}
		m, err := parseRecord(record)
		if err != nil {
			skipped++
			continue
		}
		out = append(out, m)
	}
	return out, skipped, nil
}

func parseRecord(record []string) (domain.MedicineInput, error) {
	if len(record) < len(Columns) {
		return domain.MedicineInput{}, fmt.Errorf("expected %d fields, got %d", len(Columns), len(record))
	}
	field := func(i int) string { return strings.TrimSpace(record[i]) }

	name := field(0)
	if name == "" {
		return domain.MedicineInput{}, errors.New("name is required")
	}
	qty := int64(0)
	if raw := field(4); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			return domain.MedicineInput{}, fmt.Errorf("invalid quantity %q", raw)
		}
		qty = n
	}
	price := decimal.Zero
	if raw := field(5); raw != "" {
		p, err := decimal.NewFromString(raw)
		if err != nil || p.IsNegative() {
			return domain.MedicineInput{}, fmt.Errorf("invalid price %q", raw)
		}
		price = p
	}
	return domain.MedicineInput{
		Name:         name,
		Manufacturer: field(1),
		BatchNo:      field(2),
		ExpiryDate:   field(3),
		Quantity:     qty,
		Price:        price,
	}, nil
}

// LoadMedicines seeds the medicines table from the CSV at csvPath. It does
// nothing once the table holds any row.
func LoadMedicines(db *sqlx.DB, csvPath string) {
	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM medicines`); err != nil {
		log.Printf("unable to count medicines: %v", err)
		return
	}
	if count > 0 {
		return
	}

	file, err := os.Open(csvPath)
	if err != nil {
		log.Printf("unable to load medicine catalog %s: %v", csvPath, err)
		return
	}
	defer file.Close()

	medicines, skipped, err := ReadMedicines(file)
	if err != nil {
		log.Printf("unable to read medicine catalog: %v", err)
		return
	}
	if skipped > 0 {
		log.Printf("skipped %d malformed medicine rows", skipped)
	}

	tx, err := db.Beginx()
	if err != nil {
		log.Printf("unable to start medicine transaction: %v", err)
		return
	}
	stmt, err := tx.Preparex(`INSERT INTO medicines (name, manufacturer, batch_no, expiry_date, quantity, price) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		log.Printf("unable to prepare medicine insert: %v", err)
		_ = tx.Rollback()
		return
	}
	defer stmt.Close()

	rows := 0
	for _, m := range medicines {
		price, _ := m.Price.Float64()
		if _, err := stmt.Exec(m.Name, m.Manufacturer, m.BatchNo, m.ExpiryDate, m.Quantity, price); err != nil {
			log.Printf("unable to insert medicine %s: %v", m.Name, err)
		} else {
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("unable to commit medicine seed: %v", err)
	} else {
		log.Printf("seeded medicine catalog with %d rows", rows)
	}
}
