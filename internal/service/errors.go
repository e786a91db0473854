package service

import (
	"errors"
	"fmt"

	"servicefinder/internal/apperr"
	"servicefinder/internal/database"
)

var (
	ErrUserNotFound          = apperr.NotFound("User not found")
	ErrProviderNotFound      = apperr.NotFound("Service provider not found")
	ErrPackageNotFound       = apperr.NotFound("Package not found")
	ErrBookingNotFound       = apperr.NotFound("Service request not found")
	ErrModificationNotFound  = apperr.NotFound("Modification not found")
	ErrCategoryNotFound      = apperr.NotFound("Category not found")
	ErrSubCategoryNotFound   = apperr.NotFound("SubCategory not found")
	ErrPortfolioNotFound     = apperr.NotFound("Portfolio not found")
	ErrCertificationNotFound = apperr.NotFound("Certification not found")
	ErrReviewNotFound        = apperr.NotFound("Review not found")

	ErrForbidden = apperr.Forbidden("You are not allowed to perform this action")

	ErrPackageProviderMismatch = apperr.BadRequest("Package does not belong to the service provider")
	ErrPackageLimit            = apperr.BadRequest("Maximum 5 packages allowed per user")
	ErrDuplicatePackageName    = apperr.Conflict("You already have a package with this name")
	ErrDuplicatePackagePrice   = apperr.Conflict("You already have a package with this price")
	ErrPackageCooldown         = apperr.BadRequest("Package can only be updated once every 7 days")
	ErrInvalidPrice            = apperr.BadRequest("Price must be a decimal number")

	ErrProviderImmutable = apperr.BadRequest("Service provider of a request cannot be changed")
	ErrOwnModification   = apperr.Forbidden("You cannot approve or reject your own modification request")

	ErrDuplicateCertification = apperr.Conflict("You already added this certification")

	ErrReviewNotCompleted     = apperr.BadRequest("Only completed service requests can be reviewed")
	ErrReviewNotCustomer      = apperr.Forbidden("Only the customer of the service request can review it")
	ErrReviewProviderMismatch = apperr.BadRequest("Provider does not match the service request")
	ErrDuplicateReview        = apperr.Conflict("You already reviewed this service request")

	ErrEmailExists         = apperr.Conflict("Email already exists")
	ErrAdminSignup         = apperr.Forbidden("Admin accounts cannot be self-registered")
	ErrInvalidPassword     = apperr.Unauthorized("Invalid password")
	ErrAccountBlocked      = apperr.Forbidden("Account is blocked")
	ErrTooManyAttempts     = apperr.TooManyRequests("Too many login attempts, try again later")
	ErrMissingRefreshToken = apperr.BadRequest("No refresh token provided")
	ErrInvalidRefreshToken = apperr.Unauthorized("Invalid or expired refresh token")
	ErrInvalidLimit        = apperr.BadRequest("Invalid limit value")
	ErrInvalidStatus       = apperr.BadRequest("Invalid status")
	ErrUserIDRequired      = apperr.BadRequest("User ID is required")
)

// translate maps repository sentinels onto API errors. notFound is used for
// missing rows and dangling references; anything unrecognised passes through.
func translate(err error, notFound *apperr.Error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, database.ErrNotFound), errors.Is(err, database.ErrForeignKeyAbsent):
		return notFound.Wrap(err)
	case errors.Is(err, database.ErrPackageLimit):
		return ErrPackageLimit.Wrap(err)
	case errors.Is(err, database.ErrDuplicateName):
		return ErrDuplicatePackageName.Wrap(err)
	case errors.Is(err, database.ErrDuplicatePrice):
		return ErrDuplicatePackagePrice.Wrap(err)
	case errors.Is(err, database.ErrDuplicateEmail):
		return ErrEmailExists.Wrap(err)
	case errors.Is(err, database.ErrDuplicateReview):
		return ErrDuplicateReview.Wrap(err)
	}
	return err
}

func transitionConflict(from, to string) *apperr.Error {
	return apperr.Conflict(fmt.Sprintf("Cannot change status from %s to %s", from, to))
}
