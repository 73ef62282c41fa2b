package service

import "github.com/fazletdinov/vidstream/internal/model"

// Predicate is an authorization check over an already-resolved identity.
// It returns the identity on success and ErrForbidden otherwise; the
// token codec is never consulted here.
type Predicate func(*model.User) (*model.User, error)

func RequireActive(user *model.User) (*model.User, error) {
	if user == nil || !user.IsActive {
		return nil, ErrForbidden
	}
	return user, nil
}

func RequireRole(role model.Role) Predicate {
	return func(user *model.User) (*model.User, error) {
		if user == nil || user.Role != role {
			return nil, ErrForbidden
		}
		return user, nil
	}
}

func RequireSuperuser(user *model.User) (*model.User, error) {
	if user == nil || !user.IsSuperuser {
		return nil, ErrForbidden
	}
	return user, nil
}

// All composes predicates by conjunction.
func All(preds ...Predicate) Predicate {
	return func(user *model.User) (*model.User, error) {
		var err error
		for _, pred := range preds {
			user, err = pred(user)
			if err != nil {
				return nil, err
			}
		}
		return user, nil
	}
}

// RequireSuperuserWithRole demands both flags at once, e.g. a superuser
// who is also a moderator.
func RequireSuperuserWithRole(role model.Role) Predicate {
	return All(RequireSuperuser, RequireRole(role))
}
