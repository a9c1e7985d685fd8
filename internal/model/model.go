package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

type Author struct {
	ID        int    `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	Surname   string `json:"surname" db:"surname"`
	BirthDate Date   `json:"birth_date" db:"birth_date"`
}

type Book struct {
	ID          int     `json:"id" db:"id"`
	Title       string  `json:"title" db:"title"`
	Description *string `json:"description" db:"description"`
	Genre       *string `json:"genre" db:"genre"`
	AuthorID    *int    `json:"author_id" db:"author_id"`
}

type Comment struct {
	ID      int    `json:"id" db:"id"`
	Content string `json:"content" db:"content"`
	BookID  *int   `json:"book_id" db:"book_id"`
}

type CreateAuthorRequest struct {
	Name      string `json:"name" validate:"required"`
	Surname   string `json:"surname" validate:"required"`
	BirthDate Date   `json:"birth_date"`
}

type CreateBookRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	Genre       *string `json:"genre"`
	AuthorID    *int    `json:"author_id"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required"`
	BookID  *int   `json:"book_id"`
}

// Date is a date-only value. The zero Date marshals as JSON null and is
// stored as SQL NULL.
type Date struct {
	time.Time `json:",inline"`
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Wrap(err, "birth_date")
	}
	if s == nil {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(time.DateOnly, *s)
	if err != nil {
		return errors.Wrap(err, "birth_date")
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(time.DateOnly))
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		d.Time = time.Time{}
	case time.Time:
		d.Time = v
	case string:
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return err
		}
		d.Time = t
	default:
		return errors.Errorf("unsupported date type %T", src)
	}
	return nil
}

func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}
