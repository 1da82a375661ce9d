package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/riskibarqy/bet-tracker/internal/domain/bet"
)

func TestImportService_ImportCSV(t *testing.T) {
	t.Parallel()

	repo := newFakeBetRepository()
	invalidator := &recordingInvalidator{}
	svc := NewImportService(repo, invalidator, 2, nil)

	csv := strings.Join([]string{
		"id,market,odd,stake,result,created_at",
		"b1,Match Winner,1.9,100,won,2026-07-01",
		"b2,Over/Under 2.5,2.1,50,lost,2026-07-02",
	}, "\n")

	result, err := svc.ImportCSV(context.Background(), strings.NewReader(csv), "u1")
	if err != nil {
		t.Fatalf("import csv: %v", err)
	}
	if result.Imported != 2 || result.Skipped != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	stored, _, _ := repo.GetByID(context.Background(), "b1")
	if stored.Market != "Match Winner" || stored.Result != bet.ResultWin {
		t.Fatalf("unexpected stored bet: %+v", stored)
	}
	if stored.UserID != "u1" {
		t.Fatalf("user_id not filled in: %q", stored.UserID)
	}
	if stored.Source == nil || *stored.Source != "csv" {
		t.Fatalf("source tag missing: %v", stored.Source)
	}
	if stored.Odd != 1.9 || stored.Stake != 100 {
		t.Fatalf("numeric columns not coerced: %+v", stored)
	}

	if len(invalidator.prefixes) != 1 || invalidator.prefixes[0] != "stats:u1:" {
		t.Fatalf("unexpected invalidations: %v", invalidator.prefixes)
	}
}

func TestImportService_SkipsEmptyRows(t *testing.T) {
	t.Parallel()

	svc := NewImportService(newFakeBetRepository(), nil, 1, nil)

	csv := strings.Join([]string{
		"id,market",
		"b1,Match Winner",
		",",
		"b2,Corners",
	}, "\n")

	result, err := svc.ImportCSV(context.Background(), strings.NewReader(csv), "u1")
	if err != nil {
		t.Fatalf("import csv: %v", err)
	}
	if result.Imported != 2 || result.Skipped != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestImportService_ShortRowsTolerated(t *testing.T) {
	t.Parallel()

	repo := newFakeBetRepository()
	svc := NewImportService(repo, nil, 4, nil)

	// Second row is shorter than the header; missing columns default.
	csv := "id,market,odd\nb1,Match Winner,1.5\nb2,Corners\n"

	result, err := svc.ImportCSV(context.Background(), strings.NewReader(csv), "u1")
	if err != nil {
		t.Fatalf("import csv: %v", err)
	}
	if result.Imported != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}

	short, _, _ := repo.GetByID(context.Background(), "b2")
	if short.Odd != 0 {
		t.Fatalf("missing column should default to 0, got %v", short.Odd)
	}
}

func TestImportService_EmptyInput(t *testing.T) {
	t.Parallel()

	svc := NewImportService(newFakeBetRepository(), nil, 4, nil)

	result, err := svc.ImportCSV(context.Background(), strings.NewReader(""), "u1")
	if err != nil {
		t.Fatalf("import csv: %v", err)
	}
	if result.Imported != 0 || result.Skipped != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestImportService_RequiresUserID(t *testing.T) {
	t.Parallel()

	svc := NewImportService(newFakeBetRepository(), nil, 4, nil)

	_, err := svc.ImportCSV(context.Background(), strings.NewReader("id\nb1\n"), "  ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestImportService_MalformedCSV(t *testing.T) {
	t.Parallel()

	svc := NewImportService(newFakeBetRepository(), nil, 4, nil)

	_, err := svc.ImportCSV(context.Background(), strings.NewReader("id,market\n\"unterminated\n"), "u1")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestImportService_RowUserIDWins(t *testing.T) {
	t.Parallel()

	repo := newFakeBetRepository()
	svc := NewImportService(repo, nil, 4, nil)

	csv := "id,user_id,market\nb1,owner-9,Match Winner\n"
	if _, err := svc.ImportCSV(context.Background(), strings.NewReader(csv), "u1"); err != nil {
		t.Fatalf("import csv: %v", err)
	}

	stored, _, _ := repo.GetByID(context.Background(), "b1")
	if stored.UserID != "owner-9" {
		t.Fatalf("row-level user_id overridden: %q", stored.UserID)
	}
}
