package service

import "errors"

var (
	// ErrInvalidTripID is returned when trip ID is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidPassengerID is returned when passenger ID is empty.
	ErrInvalidPassengerID = errors.New("invalid passenger id")

	// ErrInvalidDriverID is returned when driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidPaymentID is returned when payment ID is empty.
	ErrInvalidPaymentID = errors.New("invalid payment id")

	// ErrInvalidRequestID is returned when special request ID is empty.
	ErrInvalidRequestID = errors.New("invalid request id")

	// ErrInvalidWithdrawalID is returned when withdrawal ID is empty.
	ErrInvalidWithdrawalID = errors.New("invalid withdrawal id")

	// ErrInvalidMessageID is returned when message ID is empty.
	ErrInvalidMessageID = errors.New("invalid message id")

	// ErrInvalidRoute is returned when origin or destination is empty.
	ErrInvalidRoute = errors.New("invalid origin or destination")

	// ErrInvalidSeats is returned when the seat count is not positive.
	ErrInvalidSeats = errors.New("seat count must be positive")

	// ErrInvalidAmount is returned when a monetary amount is not positive.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidScore is returned when a rating score is outside 1-5.
	ErrInvalidScore = errors.New("rating score must be between 1 and 5")

	// ErrInvalidRatingID is returned when rating ID is empty.
	ErrInvalidRatingID = errors.New("invalid rating id")

	// ErrInvalidReply is returned when a rating response is empty.
	ErrInvalidReply = errors.New("response text is required")

	// ErrInvalidLocation is returned when coordinates are out of range.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrNotAllowed is returned when the actor's role may not perform the operation.
	ErrNotAllowed = errors.New("operation not allowed for this role")

	// ErrNotTripPassenger is returned when the actor is not the trip's passenger.
	ErrNotTripPassenger = errors.New("actor is not the trip passenger")

	// ErrDriverNotAssigned is returned when the acting driver is not assigned to the trip.
	ErrDriverNotAssigned = errors.New("driver not assigned to this trip")

	// ErrInvalidTripTransition is returned when a trip status edge is illegal.
	ErrInvalidTripTransition = errors.New("invalid trip status transition")

	// ErrTripNotCompleted is returned when rating a trip that has not completed.
	ErrTripNotCompleted = errors.New("trip is not completed")

	// ErrDuplicateRating is returned when the trip was already rated by the passenger.
	ErrDuplicateRating = errors.New("trip already rated by this passenger")

	// ErrDuplicateResponse is returned when the rating already has a driver response.
	ErrDuplicateResponse = errors.New("rating already has a response")

	// ErrNoFareForRoute is returned when no fare is configured for the route.
	ErrNoFareForRoute = errors.New("no fare configured for this route")

	// ErrPaymentNotPending is returned when confirming a payment not in pending.
	ErrPaymentNotPending = errors.New("payment is not pending")

	// ErrPaymentInProgress is returned when a confirmation is already running.
	ErrPaymentInProgress = errors.New("payment confirmation already in progress")

	// ErrPaymentDeclined is returned when the gateway rejects a payment.
	ErrPaymentDeclined = errors.New("payment declined by gateway")

	// ErrPaymentNotRefundable is returned when refunding a payment that is not completed.
	ErrPaymentNotRefundable = errors.New("only completed payments can be refunded")

	// ErrInvalidRequestTransition is returned when a special-request edge is illegal.
	ErrInvalidRequestTransition = errors.New("invalid request status transition")

	// ErrRequestNotPending is returned when assigning a non-pending special request.
	ErrRequestNotPending = errors.New("request is not pending")

	// ErrWithdrawalProcessed is returned when the withdrawal already reached a terminal status.
	ErrWithdrawalProcessed = errors.New("withdrawal already processed")

	// ErrInsufficientBalance is returned when a withdrawal exceeds the driver's settled balance.
	ErrInsufficientBalance = errors.New("withdrawal exceeds available balance")
)
