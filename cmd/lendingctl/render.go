package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/Astemirdum/lending-service/internal/model"
	"github.com/Astemirdum/lending-service/pkg/client"
)

const (
	dateLayout = "2006-01-02"
	cardWidth  = 60
)

func badge(status model.BookStatus) string {
	if status == model.BookAvailable {
		return "[available]"
	}
	return "[borrowed]"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// renderBookCard prints one catalog entry as a boxed card.
func renderBookCard(w io.Writer, b client.Book) {
	line := strings.Repeat("-", cardWidth)
	fmt.Fprintf(w, "+%s+\n", line)
	fmt.Fprintf(w, "| %-*s |\n", cardWidth-2, truncate(b.Title, cardWidth-2))
	fmt.Fprintf(w, "| %-*s |\n", cardWidth-2, truncate("by "+b.Author, cardWidth-2))
	fmt.Fprintf(w, "| %-*s |\n", cardWidth-2, badge(b.Status))
	if b.Description != "" {
		fmt.Fprintf(w, "| %-*s |\n", cardWidth-2, truncate(b.Description, cardWidth-2))
	}
	fmt.Fprintf(w, "| %-*s |\n", cardWidth-2, "id: "+b.ID)
	fmt.Fprintf(w, "+%s+\n", line)
}

func renderBooks(w io.Writer, books []client.Book) {
	if len(books) == 0 {
		fmt.Fprintln(w, "No books in the catalog.")
		return
	}
	for _, b := range books {
		renderBookCard(w, b)
	}
}

func renderBookDetails(w io.Writer, b client.BookWithBorrows) {
	renderBookCard(w, b.Book)
	fmt.Fprintf(w, "ISBN: %s\n", b.ISBN)
	if len(b.Borrows) == 0 {
		fmt.Fprintln(w, "Never borrowed.")
		return
	}
	fmt.Fprintln(w, "History:")
	for _, br := range b.Borrows {
		fmt.Fprintf(w, "  %s  %-8s due %s\n", br.BorrowDate.Format(dateLayout), br.Status, br.DueDate.Format(dateLayout))
	}
}

func renderProfile(w io.Writer, p client.Profile) {
	fmt.Fprintf(w, "%s <%s>\n", p.Name, p.Email)
	if len(p.Borrows) == 0 {
		fmt.Fprintln(w, "No borrows yet.")
		return
	}
	for _, br := range p.Borrows {
		state := "due " + br.DueDate.Format(dateLayout)
		if br.Status == model.BorrowReturned && br.ReturnDate != nil {
			state = "returned " + br.ReturnDate.Format(dateLayout)
		}
		fmt.Fprintf(w, "  %-40s %s\n", truncate(br.Book.Title, 40), state)
	}
}
