package service

import (
	"context"

	"go.uber.org/zap"

	libraryRepo "github.com/mkamenev/library-api/internal/repository"

	"github.com/mkamenev/library-api/internal/model"
)

type Service struct {
	log  *zap.Logger
	repo libraryRepo.Repository
}

func NewService(repo libraryRepo.Repository, log *zap.Logger) *Service {
	return &Service{
		log:  log,
		repo: repo,
	}
}

func (s *Service) CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (model.Author, error) {
	return s.repo.CreateAuthor(ctx, req)
}

func (s *Service) ListAuthors(ctx context.Context) ([]model.Author, error) {
	return s.repo.ListAuthors(ctx)
}

func (s *Service) GetAuthor(ctx context.Context, id int) (model.Author, error) {
	return s.repo.GetAuthor(ctx, id)
}

func (s *Service) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	return s.repo.CreateBook(ctx, req)
}

func (s *Service) ListBooks(ctx context.Context) ([]model.Book, error) {
	return s.repo.ListBooks(ctx)
}

func (s *Service) GetBook(ctx context.Context, id int) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Service) CreateComment(ctx context.Context, req model.CreateCommentRequest) (model.Comment, error) {
	return s.repo.CreateComment(ctx, req)
}

func (s *Service) ListComments(ctx context.Context) ([]model.Comment, error) {
	return s.repo.ListComments(ctx)
}

func (s *Service) ListBookComments(ctx context.Context, bookID int) ([]model.Comment, error) {
	return s.repo.ListBookComments(ctx, bookID)
}
