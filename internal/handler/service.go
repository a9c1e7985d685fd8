package handler

import (
	"context"

	"github.com/mkamenev/library-api/internal/model"
	"github.com/mkamenev/library-api/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LibraryService interface {
	CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (model.Author, error)
	ListAuthors(ctx context.Context) ([]model.Author, error)
	GetAuthor(ctx context.Context, id int) (model.Author, error)
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	CreateComment(ctx context.Context, req model.CreateCommentRequest) (model.Comment, error)
	ListComments(ctx context.Context) ([]model.Comment, error)
	ListBookComments(ctx context.Context, bookID int) ([]model.Comment, error)
}

var _ LibraryService = (*service.Service)(nil)
