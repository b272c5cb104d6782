package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/MLowen1/basicwebapp/internal/client/api"
)

func (a *App) Contacts(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	list, err := a.client.ListContacts(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No contacts")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFIRST NAME\tLAST NAME\tEMAIL")
	for _, c := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.ID, c.FirstName, c.LastName, c.Email)
	}
	return tw.Flush()
}

func (a *App) AddContact(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	var in api.Contact
	var err error
	if in.FirstName, err = getSimpleText(a.reader, "First name", a.out); err != nil {
		return err
	}
	if in.LastName, err = getSimpleText(a.reader, "Last name", a.out); err != nil {
		return err
	}
	if in.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}

	c, err := a.client.CreateContact(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Contact %d created\n", c.ID)
	return nil
}

func (a *App) DeleteContact(ctx context.Context, arg string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid contact id %q", arg)
	}

	if err := a.client.DeleteContact(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Contact %d deleted\n", id)
	return nil
}

func (a *App) Images(ctx context.Context, query string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	res, err := a.client.SearchImages(ctx, query)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%d results\n", res.ResultCount)
	for _, img := range res.Results {
		fmt.Fprintf(a.out, "- %s by %s [%s]\n  %s\n", img.Title, img.Creator, img.License, img.URL)
	}
	return nil
}
