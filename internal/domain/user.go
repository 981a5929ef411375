// internal/domain/user.go
package domain

// User is the user aggregate: the base record plus the ids of the users this
// user has added as friends. Friendship is a directed edge; Friends holds
// outgoing edges only.
type User struct {
	ID       int    `json:"id" db:"id"`
	Email    string `json:"email" db:"email" validate:"required,email"`
	Login    string `json:"login" db:"login" validate:"required"`
	Name     string `json:"name" db:"name"`
	Birthday Date   `json:"birthday" db:"birthday"`
	Friends  []int  `json:"friends" db:"-"`
}
