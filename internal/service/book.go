package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/internal/model"
	"github.com/Astemirdum/lending-service/pkg/kafka"
)

func (s *Service) ListBooks(ctx context.Context) ([]model.Book, error) {
	return s.repo.ListBooks(ctx)
}

func (s *Service) GetBook(ctx context.Context, id string) (model.BookWithBorrows, error) {
	book, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return model.BookWithBorrows{}, err
	}
	borrows, err := s.repo.ListBookBorrows(ctx, id)
	if err != nil {
		return model.BookWithBorrows{}, err
	}
	return model.BookWithBorrows{Book: book, Borrows: borrows}, nil
}

func (s *Service) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	return s.repo.CreateBook(ctx, model.Book{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		CoverImage:  req.CoverImage,
		Description: req.Description,
		Status:      model.BookAvailable,
	})
}

func (s *Service) UpdateBook(ctx context.Context, id string, req model.UpdateBookRequest) (model.Book, error) {
	return s.repo.UpdateBook(ctx, id, req)
}

func (s *Service) DeleteBook(ctx context.Context, id string) error {
	return s.repo.DeleteBook(ctx, id)
}

func (s *Service) Borrow(ctx context.Context, userID, bookID string) (model.Borrow, error) {
	borrow, err := s.repo.BorrowBook(ctx, userID, bookID, s.now())
	if err != nil {
		return model.Borrow{}, err
	}
	s.log.Info("book borrowed", zap.String("book", bookID), zap.String("user", userID))
	s.publish(ctx, kafka.EventBorrow, borrow)
	return borrow, nil
}

func (s *Service) Return(ctx context.Context, userID, bookID string) (model.Borrow, error) {
	borrow, err := s.repo.ReturnBook(ctx, userID, bookID, s.now())
	if err != nil {
		return model.Borrow{}, err
	}
	s.log.Info("book returned", zap.String("book", bookID), zap.String("user", userID))
	s.publish(ctx, kafka.EventReturn, borrow)
	return borrow, nil
}

func (s *Service) publish(ctx context.Context, eventType kafka.EventType, borrow model.Borrow) {
	s.publisher.Publish(ctx, kafka.LendingEvent{
		Timestamp: s.now(),
		UserID:    borrow.UserID,
		BookID:    borrow.BookID,
		BorrowID:  borrow.ID,
		EventType: eventType,
	})
}
