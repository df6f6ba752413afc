package csvfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"clinicdesk/internal/domain"
	"clinicdesk/internal/store"
)

func testAppointment(slot domain.Slot) domain.Appointment {
	return domain.Appointment{
		Date:        time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Slot:        slot,
		PatientName: "Ali",
		PatientAge:  30,
		Gender:      domain.GenderMale,
		History:     "knee pain",
		Contact:     "0300-1234567",
	}
}

func TestList_MissingFileIsEmptyStore(t *testing.T) {
	repo := NewAppointmentRepo(filepath.Join(t.TempDir(), "appointments.csv"))

	appts, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(appts) != 0 {
		t.Fatalf("len(appts) = %d, want 0", len(appts))
	}
}

func TestAppendThenList_RoundTripsAllFields(t *testing.T) {
	repo := NewAppointmentRepo(filepath.Join(t.TempDir(), "appointments.csv"))
	ctx := context.Background()

	want := []domain.Appointment{
		testAppointment("09:00"),
		{
			Date:        time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
			Slot:        "15:45",
			PatientName: "Fatima",
			PatientAge:  0,
			Gender:      domain.GenderFemale,
			History:     "",
			Contact:     "+92-334-0000000",
		},
		{
			Date:        time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
			Slot:        "16:00",
			PatientName: "کامران",
			PatientAge:  120,
			Gender:      domain.GenderOther,
			History:     "بیماری کی تفصیل, with a comma and \"quotes\"",
			Contact:     "0300...",
		},
	}

	for _, appt := range want {
		if err := repo.Append(ctx, appt); err != nil {
			t.Fatalf("Append(%q) error: %v", appt.Slot, err)
		}
	}

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Date.Equal(want[i].Date) {
			t.Fatalf("appt %d date = %v, want %v", i, got[i].Date, want[i].Date)
		}
		g, w := got[i], want[i]
		g.Date, w.Date = time.Time{}, time.Time{}
		if g != w {
			t.Fatalf("appt %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestAppend_WritesHeaderOnceAcrossReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appointments.csv")
	ctx := context.Background()

	if err := NewAppointmentRepo(path).Append(ctx, testAppointment("09:00")); err != nil {
		t.Fatalf("first Append error: %v", err)
	}
	// A fresh repo on the same file must keep appending, not rewrite.
	if err := NewAppointmentRepo(path).Append(ctx, testAppointment("09:15")); err != nil {
		t.Fatalf("second Append error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("file has %d lines, want 3 (header + 2 rows):\n%s", len(lines), raw)
	}
	if lines[0] != "date,slot,name,age,gender,history,contact" {
		t.Fatalf("header = %q", lines[0])
	}
	if strings.Count(string(raw), "date,slot") != 1 {
		t.Fatalf("header written more than once:\n%s", raw)
	}
}

func TestList_CorruptRowsSurfaceSentinel(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{name: "bad age", row: "2026-09-01,09:00,Ali,thirty,Male,,0300"},
		{name: "bad gender", row: "2026-09-01,09:00,Ali,30,Unknown,,0300"},
		{name: "bad date", row: "01/09/2026,09:00,Ali,30,Male,,0300"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "appointments.csv")
			content := "date,slot,name,age,gender,history,contact\n" + tt.row + "\n"
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("WriteFile error: %v", err)
			}

			_, err := NewAppointmentRepo(path).List(context.Background())
			if !errors.Is(err, store.ErrCorruptRecord) {
				t.Fatalf("List error = %v, want ErrCorruptRecord", err)
			}
		})
	}
}

func TestList_FileWithoutHeaderRowIsCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appointments.csv")
	// A hand-provisioned file whose first row is already a record.
	content := "2026-09-01,09:00,Ali,30,Male,,0300\n2026-09-01,09:15,Hassan,40,Male,,0301\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	_, err := NewAppointmentRepo(path).List(context.Background())
	if !errors.Is(err, store.ErrCorruptRecord) {
		t.Fatalf("List error = %v, want ErrCorruptRecord", err)
	}
}

func TestList_RejectsShortRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appointments.csv")
	content := "date,slot,name,age,gender,history,contact\n2026-09-01,09:00,Ali\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	_, err := NewAppointmentRepo(path).List(context.Background())
	if err == nil {
		t.Fatalf("expected error for short row")
	}
}

func TestAppend_CancelledContext(t *testing.T) {
	repo := NewAppointmentRepo(filepath.Join(t.TempDir(), "appointments.csv"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := repo.Append(ctx, testAppointment("09:00")); !errors.Is(err, context.Canceled) {
		t.Fatalf("Append error = %v, want context.Canceled", err)
	}

	appts, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(appts) != 0 {
		t.Fatalf("cancelled append persisted %d records", len(appts))
	}
}
