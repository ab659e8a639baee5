package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/amleal/produtos-manager/internal/format"
	"github.com/amleal/produtos-manager/internal/models"
)

func renderProducts(out io.Writer, items []models.Product, pg models.Pagination) {
	if len(items) == 0 {
		fmt.Fprintln(out, "No products found.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tTHUMBNAIL\tCREATED")
	for _, p := range items {
		status := "inactive"
		if p.Status {
			status = "active"
		}
		thumb := "-"
		if p.Thumbnail != nil {
			thumb = p.Thumbnail.OriginalName
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Title, status, thumb, format.Date(p.CreatedAt))
	}
	w.Flush()

	fmt.Fprintf(out, "Page %d/%d, %d items total\n", pg.Page, pg.TotalPages, pg.Total)
}

func renderProduct(out io.Writer, p *models.Product) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", p.ID)
	fmt.Fprintf(w, "Title:\t%s\n", p.Title)
	fmt.Fprintf(w, "Description:\t%s\n", p.Description)
	status := "inactive"
	if p.Status {
		status = "active"
	}
	fmt.Fprintf(w, "Status:\t%s\n", status)
	if p.Thumbnail != nil {
		fmt.Fprintf(w, "Thumbnail:\t%s (%s, %s)\n",
			p.Thumbnail.OriginalName, p.Thumbnail.Type, format.FileSize(p.Thumbnail.Size))
		fmt.Fprintf(w, "URL:\t%s\n", p.Thumbnail.URL)
	}
	fmt.Fprintf(w, "Created:\t%s\n", format.Date(p.CreatedAt))
	fmt.Fprintf(w, "Updated:\t%s\n", format.Date(p.UpdatedAt))
	w.Flush()
}

func renderUser(out io.Writer, u *models.User) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", u.ID)
	fmt.Fprintf(w, "Name:\t%s\n", u.Name)
	fmt.Fprintf(w, "Email:\t%s (%s)\n", u.Email, u.EmailStatus)
	fmt.Fprintf(w, "Phone:\t+%s (%s) %s\n", u.Phone.Country, u.Phone.DDD, u.Phone.Number)
	fmt.Fprintf(w, "Role:\t%s\n", roleLabel(u.PlatformRole))
	fmt.Fprintf(w, "Status:\t%s\n", statusLabel(u.Status))
	if u.City != "" || u.State != "" {
		fmt.Fprintf(w, "Address:\t%s, %s - %s, %s\n", u.Street, u.District, u.City, u.State)
	}
	fmt.Fprintf(w, "Member since:\t%s\n", format.Date(u.CreatedAt))
	w.Flush()
}

// roleLabel and statusLabel translate the server's enum values for display;
// unknown values pass through so new server states stay visible.
func roleLabel(role string) string {
	switch role {
	case models.RoleAdmin:
		return "admin"
	case models.RoleUser:
		return "user"
	default:
		return role
	}
}

func statusLabel(status string) string {
	switch status {
	case models.StatusActive:
		return "active"
	case models.StatusInactive:
		return "inactive"
	default:
		return status
	}
}
