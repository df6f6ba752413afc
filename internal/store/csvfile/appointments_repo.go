package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"clinicdesk/internal/domain"
	"clinicdesk/internal/store"
)

// header names the record fields in their fixed on-disk order.
var header = []string{"date", "slot", "name", "age", "gender", "history", "contact"}

// AppointmentRepo persists appointments in a single CSV file with one header
// row. A missing file reads as an empty store; the file is created, header
// included, on the first append.
type AppointmentRepo struct {
	path string
}

func NewAppointmentRepo(path string) *AppointmentRepo {
	return &AppointmentRepo{path: path}
}

func (r *AppointmentRepo) List(ctx context.Context) ([]domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(header)

	var out []domain.Appointment
	for line := 0; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.path, err)
		}
		if line == 0 {
			for i := range header {
				if row[i] != header[i] {
					return nil, fmt.Errorf("%s: %w: missing or malformed header row", r.path, store.ErrCorruptRecord)
				}
			}
			continue
		}
		appt, err := decodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", r.path, line+1, err)
		}
		out = append(out, appt)
	}
}

func (r *AppointmentRepo) Append(ctx context.Context, appt domain.Appointment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.OpenFile(r.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			return err
		}
	}
	if err := w.Write(encodeRow(appt)); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Sync()
}

func encodeRow(appt domain.Appointment) []string {
	return []string{
		appt.Date.Format(domain.DateLayout),
		string(appt.Slot),
		appt.PatientName,
		strconv.Itoa(appt.PatientAge),
		string(appt.Gender),
		appt.History,
		appt.Contact,
	}
}

func decodeRow(row []string) (domain.Appointment, error) {
	date, err := time.ParseInLocation(domain.DateLayout, row[0], time.UTC)
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("%w: bad date %q", store.ErrCorruptRecord, row[0])
	}
	age, err := strconv.Atoi(row[3])
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("%w: bad age %q", store.ErrCorruptRecord, row[3])
	}
	gender, err := domain.ParseGender(row[4])
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("%w: bad gender %q", store.ErrCorruptRecord, row[4])
	}

	return domain.Appointment{
		Date:        date,
		Slot:        domain.Slot(row[1]),
		PatientName: row[2],
		PatientAge:  age,
		Gender:      gender,
		History:     row[5],
		Contact:     row[6],
	}, nil
}
