// Package model defines database models
package model

import "time"

type User struct {
	ID    string `gorm:"primaryKey"`
	Email string `gorm:"unique;not null"`
	Name  string

	// Empty for accounts created through a social login. Those get a
	// random placeholder hash that can never be matched by the
	// password login path
	PasswordHash string

	Verified bool `gorm:"default:false"`

	// Pointers so that multiple rows without a linked social account
	// don't collide on the unique index
	GoogleID   *string `gorm:"uniqueIndex"`
	FacebookID *string `gorm:"uniqueIndex"`

	// Only the most recently issued refresh token is stored. Issuing a
	// new one overwrites and implicitly revokes the previous one.
	// Empty means logged out
	RefreshToken string

	CreatedAt time.Time

	VerificationCodes []VerificationCode `gorm:"foreignKey:UserID"`
}
