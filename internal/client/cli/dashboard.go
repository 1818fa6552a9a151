package cli

import (
	"context"
	"fmt"
)

// WhoAmI shows the signed-in user's own directory record, fetched fresh from
// the backend rather than rendered from the cached session.
func (a *App) WhoAmI(ctx context.Context) error {
	e, err := a.session.Profile(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Could not load profile: %v\n", err)
		return err
	}

	fmt.Fprintf(a.out, "Name:  %s\n", e.Name)
	fmt.Fprintf(a.out, "Email: %s\n", e.Email)
	fmt.Fprintf(a.out, "Role:  %s\n", e.Role)
	if !e.UpdatedAt.IsZero() {
		fmt.Fprintf(a.out, "Updated: %s\n", e.UpdatedAt.Format("2006-01-02"))
	}
	return nil
}
