package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/dmitrijs2005/motordesk/internal/common"
)

// EditVehicle fills the draft listing field by field. An empty answer keeps
// the current value.
func (a *App) EditVehicle(_ context.Context) error {
	prompts := []struct {
		label string
		set   func(string) error
	}{
		{"Make", func(s string) error { a.vehicle.Make = s; return nil }},
		{"Model", func(s string) error { a.vehicle.Model = s; return nil }},
		{"Year", func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil {
				return fmt.Errorf("not a number: %s", s)
			}
			a.vehicle.Year = n
			return nil
		}},
		{"Price (cents)", func(s string) error {
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return fmt.Errorf("not a number: %s", s)
			}
			a.vehicle.Price = n
			return nil
		}},
		{"Mileage", func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil {
				return fmt.Errorf("not a number: %s", s)
			}
			a.vehicle.Mileage = n
			return nil
		}},
		{"Fuel", func(s string) error { a.vehicle.Fuel = s; return nil }},
		{"Transmission", func(s string) error { a.vehicle.Transmission = s; return nil }},
		{"Description", func(s string) error { a.vehicle.Description = s; return nil }},
	}

	for _, p := range prompts {
		answer, err := GetSimpleText(a.reader, p.label, os.Stdout)
		if err != nil {
			log.Printf("error: %v", err)
			return err
		}
		if answer == "" {
			continue
		}
		if err := p.set(answer); err != nil {
			log.Printf("error: %v", err)
		}
	}

	printlnFn(fmt.Sprintf("Draft: %s %s (%d)", a.vehicle.Make, a.vehicle.Model, a.vehicle.Year))
	return nil
}

func (a *App) ListVehicles(ctx context.Context) error {
	list, err := a.api.ListVehicles(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if len(list) == 0 {
		printlnFn("No vehicles.")
		return nil
	}
	for _, v := range list {
		printlnFn(fmt.Sprintf("%s  %s %s (%d)  %d images", v.ID, v.Make, v.Model, v.Year, len(v.ImageAssetIDs)))
	}
	return nil
}

// Save persists the draft vehicle. It refuses while any staged image has not
// finished uploading, without sending a request.
func (a *App) Save(ctx context.Context) error {
	ids, err := a.uploader.AssetIDs()
	if err != nil {
		if errors.Is(err, common.ErrImagesPending) {
			printlnFn("Cannot save: images are still uploading or failed. Run 'upload' first.")
		} else {
			log.Printf("error: %v", err)
		}
		return err
	}

	a.vehicle.ImageAssetIDs = ids

	saved, err := a.api.SaveVehicle(ctx, &a.vehicle)
	if err != nil {
		log.Printf("saving error: %v", err)
		return err
	}

	printlnFn(fmt.Sprintf("Saved vehicle %s", saved.ID))

	a.vehicle = *saved
	if err := a.uploader.Clear(); err != nil {
		log.Printf("error clearing upload queue: %v", err)
	}
	return nil
}
