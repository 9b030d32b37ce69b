package domain

import "errors"

var (
	// ErrInvalidReward - reward with non-positive XP or negative gems
	ErrInvalidReward = errors.New("invalid reward")

	// ErrInsufficientFunds - purchase price exceeds the gem balance
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAlreadyOwned - item is already in the inventory
	ErrAlreadyOwned = errors.New("item already owned")

	// ErrNotFound - unknown lesson, goal, item, badge or user id
	ErrNotFound = errors.New("not found")

	// ErrNotStudent - progression command dispatched for a tutor
	ErrNotStudent = errors.New("user is not a student")

	// ErrPersistenceFailure - the save collaborator reported an error
	ErrPersistenceFailure = errors.New("persistence failure")
)
