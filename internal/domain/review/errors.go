package review

import "errors"

var (
	ErrReviewNotFound   = errors.New("review not found")
	ErrAlreadyReviewed  = errors.New("trek already reviewed by this customer")
	ErrCategoryNotFound = errors.New("rating category not found")
	ErrCategoryExists   = errors.New("rating category already exists")
	ErrInvalidRating    = errors.New("rating must be between 0 and 5")
	ErrInvalidStatus    = errors.New("invalid review status")
	ErrBookingMismatch  = errors.New("booking does not belong to this customer and trek")
)
