package gen

import (
	"database/sql"
)

type Holiday struct {
	ID          string
	Title       string
	Date        string
	Description sql.NullString
	IsRecurring bool
	CreatedAt   string
	UpdatedAt   string
}

type Todo struct {
	ID          string
	UserID      string
	Title       string
	Content     sql.NullString
	StartDate   sql.NullString
	DueDate     sql.NullString
	Status      string
	IsCompleted bool
	CreatedAt   string
	UpdatedAt   string
	DeletedAt   sql.NullString
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Username     string
	Role         string
	CreatedAt    string
	UpdatedAt    string
}
