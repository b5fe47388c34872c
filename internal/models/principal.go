package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Principal is the identity a request acts as.
type Principal struct {
	UserID  uuid.UUID
	IsAdmin bool
}

func Anonymous() Principal { return Principal{} }

func PrincipalFor(u *User) Principal {
	if u == nil || !u.IsActive {
		return Anonymous()
	}
	return Principal{UserID: u.ID, IsAdmin: u.IsAdmin}
}

func (p Principal) Authenticated() bool { return p.UserID != uuid.Nil }

// OwnerScope is the ownership policy for every owner-facing query: admins
// see all rows, an authenticated user sees their own, anonymous sees none.
func OwnerScope(p Principal) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case p.Authenticated() && p.IsAdmin:
			return db
		case p.Authenticated():
			return db.Where("owner_id = ?", p.UserID)
		default:
			return db.Where("1 = 0")
		}
	}
}

// OwnersScope restricts a public query to the given owners.
func OwnersScope(ownerIDs []uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(ownerIDs) == 0 {
			return db.Where("1 = 0")
		}
		return db.Where("owner_id IN ?", ownerIDs)
	}
}
