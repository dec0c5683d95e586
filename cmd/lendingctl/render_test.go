package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/lending-service/internal/model"
	"github.com/Astemirdum/lending-service/pkg/client"
)

func TestRenderBooks(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		renderBooks(&buf, nil)
		require.Equal(t, "No books in the catalog.\n", buf.String())
	})

	t.Run("card", func(t *testing.T) {
		var buf bytes.Buffer
		renderBooks(&buf, []client.Book{{
			ID:          "b1",
			Title:       "1984",
			Author:      "George Orwell",
			Description: strings.Repeat("x", 100),
			Status:      model.BookBorrowed,
		}})
		out := buf.String()
		require.Contains(t, out, "1984")
		require.Contains(t, out, "by George Orwell")
		require.Contains(t, out, "[borrowed]")
		require.Contains(t, out, "...")
		for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
			require.Len(t, line, cardWidth+2)
		}
	})
}

func TestRenderProfile(t *testing.T) {
	t.Parallel()
	returned := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	renderProfile(&buf, client.Profile{
		Name:  "John",
		Email: "john@example.com",
		Borrows: []model.BorrowWithBook{
			{
				Borrow: model.Borrow{Status: model.BorrowReturned, ReturnDate: &returned},
				Book:   model.Book{Title: "Dune"},
			},
			{
				Borrow: model.Borrow{Status: model.BorrowActive, DueDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
				Book:   model.Book{Title: "1984"},
			},
		},
	})
	out := buf.String()
	require.Contains(t, out, "John <john@example.com>")
	require.Contains(t, out, "returned 2024-01-05")
	require.Contains(t, out, "due 2024-01-15")
}
