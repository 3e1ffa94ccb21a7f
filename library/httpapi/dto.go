package httpapi

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/core"
	"github.com/AntonStoeckl/library-lending-go/library/features/query/listloans"
)

type bookRequest struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	Publisher       string `json:"publisher"`
	PublicationYear int    `json:"publicationYear"`
	Category        string `json:"category"`
	Description     string `json:"description"`
	TotalCopies     int    `json:"totalCopies"`
}

func (r bookRequest) details() core.BookDetails {
	return core.BookDetails{
		Title:           r.Title,
		Author:          r.Author,
		ISBN:            r.ISBN,
		Publisher:       r.Publisher,
		PublicationYear: r.PublicationYear,
		Category:        r.Category,
		Description:     r.Description,
		TotalCopies:     r.TotalCopies,
	}
}

type bookPatchRequest struct {
	Title           *string `json:"title"`
	Author          *string `json:"author"`
	ISBN            *string `json:"isbn"`
	Publisher       *string `json:"publisher"`
	PublicationYear *int    `json:"publicationYear"`
	Category        *string `json:"category"`
	Description     *string `json:"description"`
	TotalCopies     *int    `json:"totalCopies"`
}

func (r bookPatchRequest) patch() core.BookPatch {
	return core.BookPatch{
		Title:           r.Title,
		Author:          r.Author,
		ISBN:            r.ISBN,
		Publisher:       r.Publisher,
		PublicationYear: r.PublicationYear,
		Category:        r.Category,
		Description:     r.Description,
		TotalCopies:     r.TotalCopies,
	}
}

type bookResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	ISBN            string    `json:"isbn"`
	Publisher       string    `json:"publisher,omitempty"`
	PublicationYear int       `json:"publicationYear"`
	Category        string    `json:"category"`
	Description     string    `json:"description,omitempty"`
	TotalCopies     int       `json:"totalCopies"`
	AvailableCopies int       `json:"availableCopies"`
	AddedAt         time.Time `json:"addedAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func toBookResponse(book core.Book) bookResponse {
	return bookResponse{
		ID:              book.BookID,
		Title:           book.Title,
		Author:          book.Author,
		ISBN:            book.ISBN,
		Publisher:       book.Publisher,
		PublicationYear: book.PublicationYear,
		Category:        book.Category,
		Description:     book.Description,
		TotalCopies:     book.TotalCopies,
		AvailableCopies: book.AvailableCopies,
		AddedAt:         book.AddedAt,
		UpdatedAt:       book.UpdatedAt,
	}
}

type loanRequest struct {
	UserID         string `json:"userId"`
	BookID         string `json:"bookId"`
	LoanPeriodDays int    `json:"loanPeriodDays"`
}

type bookSummaryResponse struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

type loanResponse struct {
	ID         string               `json:"id"`
	UserID     string               `json:"userId"`
	BookID     string               `json:"bookId"`
	LoanDate   time.Time            `json:"loanDate"`
	DueDate    time.Time            `json:"dueDate"`
	ReturnDate *time.Time           `json:"returnDate,omitempty"`
	Status     core.LoanStatus      `json:"status"`
	Book       *bookSummaryResponse `json:"book,omitempty"`
}

func toLoanResponse(loan core.Loan) loanResponse {
	return loanResponse{
		ID:         loan.LoanID,
		UserID:     loan.UserID,
		BookID:     loan.BookID,
		LoanDate:   loan.LoanDate,
		DueDate:    loan.DueDate,
		ReturnDate: loan.ReturnDate,
		Status:     loan.Status,
	}
}

func toLoanViewResponses(views []listloans.LoanView) []loanResponse {
	out := make([]loanResponse, 0, len(views))
	for _, view := range views {
		response := toLoanResponse(view.Loan)
		if view.Book != nil {
			response.Book = &bookSummaryResponse{
				ID:     view.Book.BookID,
				Title:  view.Book.Title,
				Author: view.Book.Author,
				ISBN:   view.Book.ISBN,
			}
		}

		out = append(out, response)
	}

	return out
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type registerRequest struct {
	Username string    `json:"username"`
	Password string    `json:"password"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	CardID   string    `json:"cardId"`
	Role     core.Role `json:"role"`
}

func (r registerRequest) registration() core.Registration {
	role := r.Role
	if role == "" {
		role = core.RoleStudent
	}

	return core.Registration{
		Username: r.Username,
		Name:     r.Name,
		Email:    r.Email,
		CardID:   r.CardID,
		Role:     role,
	}
}

type userResponse struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	CardID       string    `json:"cardId,omitempty"`
	Role         core.Role `json:"role"`
	RegisteredAt time.Time `json:"registeredAt"`
}

func toUserResponse(user core.User) userResponse {
	return userResponse{
		ID:           user.UserID,
		Username:     user.Username,
		Name:         user.Name,
		Email:        user.Email,
		CardID:       user.CardID,
		Role:         user.Role,
		RegisteredAt: user.RegisteredAt,
	}
}

func mapAll[T, R any](items []T, convert func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, convert(item))
	}

	return out
}
