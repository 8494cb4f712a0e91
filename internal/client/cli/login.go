package cli

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/dmitrijs2005/motordesk/internal/client/api"
)

func (a *App) Login(ctx context.Context) error {

	userName, err := GetSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	err = a.api.Login(ctx, userName, string(password))
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			log.Printf("Login unsuccessful: invalid credentials")
		} else {
			log.Printf("Login unsuccessful: %s", err.Error())
		}
		return err
	}

	a.loggedIn = true
	a.userName = userName
	printlnFn("Logged in.")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.api.Logout(ctx); err != nil {
		log.Printf("Logout error: %s", err.Error())
		return err
	}
	a.loggedIn = false
	a.userName = ""
	printlnFn("Logged out.")
	return nil
}
