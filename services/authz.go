package services

import "go-storefront/utils"

// RequireAdmin gates catalog management and admin views.
func RequireAdmin(claims *utils.Claims) error {
	if claims == nil {
		return E(KindUnauthorized, "Please log in first")
	}
	if !claims.IsAdmin {
		return E(KindForbidden, "User is not authorized")
	}
	return nil
}

// RequireShopper gates purchase operations. Admins cannot buy.
func RequireShopper(claims *utils.Claims) error {
	if claims == nil {
		return E(KindUnauthorized, "Please log in first")
	}
	if claims.IsAdmin {
		return E(KindForbidden, "Non-admin user only")
	}
	return nil
}
