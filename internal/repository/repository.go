package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mkamenev/library-api/internal/errs"
	"github.com/mkamenev/library-api/internal/model"
)

type Repository interface {
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

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	authorsTableName  = `authors`
	booksTableName    = `books`
	commentsTableName = `comments`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *repository) CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (model.Author, error) {
	q, args, err := qb.Insert(authorsTableName).
		Columns("name", "surname", "birth_date").
		Values(req.Name, req.Surname, req.BirthDate).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Author{}, err
	}
	var author model.Author
	if err := r.db.GetContext(ctx, &author, q, args...); err != nil {
		r.log.Error("CreateAuthor", zap.String("q", q), zap.Any("args", args))
		return model.Author{}, wrapDBErr(err)
	}
	return author, nil
}

func (r *repository) ListAuthors(ctx context.Context) ([]model.Author, error) {
	q, args, err := qb.Select("id", "name", "surname", "birth_date").
		From(authorsTableName).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	authors := make([]model.Author, 0)
	if err := r.db.SelectContext(ctx, &authors, q, args...); err != nil {
		return nil, err
	}
	return authors, nil
}

func (r *repository) GetAuthor(ctx context.Context, id int) (model.Author, error) {
	q, args, err := qb.Select("id", "name", "surname", "birth_date").
		From(authorsTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Author{}, err
	}
	var author model.Author
	if err := r.db.GetContext(ctx, &author, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Author{}, errs.ErrNotFound
		}
		return model.Author{}, err
	}
	return author, nil
}

func (r *repository) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	q, args, err := qb.Insert(booksTableName).
		Columns("title", "description", "genre", "author_id").
		Values(req.Title, req.Description, req.Genre, req.AuthorID).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		r.log.Error("CreateBook", zap.String("q", q), zap.Any("args", args))
		return model.Book{}, wrapDBErr(err)
	}
	return book, nil
}

func (r *repository) ListBooks(ctx context.Context) ([]model.Book, error) {
	q, args, err := qb.Select("id", "title", "description", "genre", "author_id").
		From(booksTableName).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	books := make([]model.Book, 0)
	if err := r.db.SelectContext(ctx, &books, q, args...); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *repository) GetBook(ctx context.Context, id int) (model.Book, error) {
	q, args, err := qb.Select("id", "title", "description", "genre", "author_id").
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) CreateComment(ctx context.Context, req model.CreateCommentRequest) (model.Comment, error) {
	q, args, err := qb.Insert(commentsTableName).
		Columns("content", "book_id").
		Values(req.Content, req.BookID).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Comment{}, err
	}
	var comment model.Comment
	if err := r.db.GetContext(ctx, &comment, q, args...); err != nil {
		r.log.Error("CreateComment", zap.String("q", q), zap.Any("args", args))
		return model.Comment{}, wrapDBErr(err)
	}
	return comment, nil
}

func (r *repository) ListComments(ctx context.Context) ([]model.Comment, error) {
	q, args, err := qb.Select("id", "content", "book_id").
		From(commentsTableName).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	comments := make([]model.Comment, 0)
	if err := r.db.SelectContext(ctx, &comments, q, args...); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *repository) ListBookComments(ctx context.Context, bookID int) ([]model.Comment, error) {
	q, args, err := qb.Select("id", "content", "book_id").
		From(commentsTableName).
		Where(sq.Eq{"book_id": bookID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	comments := make([]model.Comment, 0)
	if err := r.db.SelectContext(ctx, &comments, q, args...); err != nil {
		return nil, err
	}
	return comments, nil
}

// wrapDBErr folds postgres integrity violations (a dangling author_id
// or book_id) into errs.ErrReference.
func wrapDBErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		return errs.ErrReference
	}
	return err
}
