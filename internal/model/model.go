package model

import (
	"time"
)

type BookStatus string

const (
	BookAvailable BookStatus = "available"
	BookBorrowed  BookStatus = "borrowed"
)

type BorrowStatus string

const (
	BorrowActive   BorrowStatus = "active"
	BorrowReturned BorrowStatus = "returned"
)

// LoanPeriod is how long a borrowed book may be kept.
const LoanPeriod = 14 * 24 * time.Hour

type User struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type Book struct {
	ID          string     `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Author      string     `json:"author" db:"author"`
	ISBN        string     `json:"isbn" db:"isbn"`
	CoverImage  string     `json:"coverImage" db:"cover_image"`
	Description string     `json:"description" db:"description"`
	Status      BookStatus `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

type Borrow struct {
	ID         string       `json:"id" db:"id"`
	UserID     string       `json:"userId" db:"user_id"`
	BookID     string       `json:"bookId" db:"book_id"`
	BorrowDate time.Time    `json:"borrowDate" db:"borrow_date"`
	DueDate    time.Time    `json:"dueDate" db:"due_date"`
	ReturnDate *time.Time   `json:"returnDate" db:"return_date"`
	Status     BorrowStatus `json:"status" db:"status"`
}

type BookWithBorrows struct {
	Book    `json:",inline"`
	Borrows []Borrow `json:"borrows"`
}

type BorrowWithBook struct {
	Borrow `json:",inline"`
	Book   Book `json:"book"`
}

// Profile is a user without the password hash, with the borrow history.
type Profile struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Borrows   []BorrowWithBook `json:"borrows"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// CreateBookRequest lists the only fields a client may set on a new book.
type CreateBookRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Author      string `json:"author" validate:"required,max=255"`
	ISBN        string `json:"isbn" validate:"required,max=32"`
	CoverImage  string `json:"coverImage"`
	Description string `json:"description"`
}

// UpdateBookRequest is a partial update; nil fields are left untouched.
type UpdateBookRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Author      *string `json:"author" validate:"omitempty,min=1,max=255"`
	ISBN        *string `json:"isbn" validate:"omitempty,min=1,max=32"`
	CoverImage  *string `json:"coverImage"`
	Description *string `json:"description"`
}

func (r UpdateBookRequest) Empty() bool {
	return r.Title == nil && r.Author == nil && r.ISBN == nil && r.CoverImage == nil && r.Description == nil
}

type MessageResponse struct {
	Message string `json:"message"`
}

type Stats struct {
	UserID       string    `json:"userId" db:"user_id"`
	Borrows      int       `json:"borrows" db:"borrows"`
	Returns      int       `json:"returns" db:"returns"`
	LastActivity time.Time `json:"lastActivity" db:"last_activity"`
}

type StatsInfo struct {
	Data []Stats `json:"data"`
}
