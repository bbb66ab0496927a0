package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/booking-platform/internal/persistence"
	"github.com/example/booking-platform/internal/testfixtures"
)

func TestHotelRepository_GetHotel(t *testing.T) {
	fx := newRepoFixture(t)
	ctx := context.Background()

	hotel, err := fx.harness.Hotels.GetHotel(ctx, fx.hotel.ID)
	if err != nil {
		t.Fatalf("GetHotel failed: %v", err)
	}
	if hotel.Name != fx.hotel.Name || hotel.City != fx.hotel.City || hotel.HostID != fx.host.ID {
		t.Errorf("unexpected hotel: %+v", hotel)
	}

	if _, err := fx.harness.Hotels.GetHotel(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHotelRepository_ListHotels_OrderedByName(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	host := testfixtures.NewUser()
	if err := harness.Users.CreateUser(ctx, host); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	for _, name := range []string{"Seaside", "Alpine", "Midtown"} {
		hotel := testfixtures.NewHotel(testfixtures.OwnedBy(host.ID))
		hotel.Name = name
		if err := harness.Hotels.CreateHotel(ctx, hotel); err != nil {
			t.Fatalf("CreateHotel(%s) failed: %v", name, err)
		}
	}

	hotels, err := harness.Hotels.ListHotels(ctx)
	if err != nil {
		t.Fatalf("ListHotels failed: %v", err)
	}
	if len(hotels) != 3 {
		t.Fatalf("expected 3 hotels, got %d", len(hotels))
	}
	for i, want := range []string{"Alpine", "Midtown", "Seaside"} {
		if hotels[i].Name != want {
			t.Errorf("position %d: expected %s, got %s", i, want, hotels[i].Name)
		}
	}
}
