package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/loans
func (s *Server) listLoans(c *gin.Context) {
	loans, err := s.lending.ListLoans(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	respond(c, http.StatusOK, toLoanViewResponses(loans))
}

// GET /api/loans/user/:userId
func (s *Server) listLoansOfUser(c *gin.Context) {
	userID := c.Param("userId")

	principal := principalOf(c)
	if !principal.IsAdmin() && principal.UserID != userID {
		abortWithMessage(c, http.StatusForbidden, msgForbidden)
		return
	}

	loans, err := s.lending.ListLoansOfUser(c.Request.Context(), userID)
	if err != nil {
		s.respondError(c, err, "user_id", userID)
		return
	}

	respond(c, http.StatusOK, toLoanViewResponses(loans))
}

// POST /api/loans
func (s *Server) requestLoan(c *gin.Context) {
	var req loanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, msgMalformedBody)
		return
	}

	principal := principalOf(c)
	if req.UserID != "" && req.UserID != principal.UserID {
		abortWithMessage(c, http.StatusForbidden, "loans can only be requested for yourself")
		return
	}

	loan, err := s.lending.RequestLoan(c.Request.Context(), principal.UserID, req.BookID, req.LoanPeriodDays)
	if err != nil {
		s.respondError(c, err, "user_id", principal.UserID, "book_id", req.BookID)
		return
	}

	c.Header("Location", "/api/loans/"+loan.LoanID)
	respondMessage(c, http.StatusCreated, toLoanResponse(loan), "loan created")
}

// PUT /api/loans/:id/return
func (s *Server) returnLoan(c *gin.Context) {
	loanID := c.Param("id")

	principal := principalOf(c)
	if !principal.IsAdmin() {
		loan, err := s.lending.Loan(c.Request.Context(), loanID)
		if err != nil {
			s.respondError(c, err, "loan_id", loanID)
			return
		}

		if loan.UserID != principal.UserID {
			abortWithMessage(c, http.StatusForbidden, msgForbidden)
			return
		}
	}

	loan, err := s.lending.ReturnLoan(c.Request.Context(), loanID)
	if err != nil {
		s.respondError(c, err, "loan_id", loanID)
		return
	}

	respondMessage(c, http.StatusOK, toLoanResponse(loan), "loan returned")
}
