package jwttoken

import (
	authmw "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/platform/middleware/auth"
)

var _ authmw.JWTValidator = (*JWTServiceAdapter)(nil)

// ToMiddlewareClaims maps the token subject to the acting user and keeps the
// group claim used for worklist filtering.
func ToMiddlewareClaims(claims *Claims) *authmw.JWTClaims {
	return &authmw.JWTClaims{
		UserID: claims.Subject,
		Groups: claims.Groups,
	}
}

// JWTServiceAdapter lets RequireAuth validate tokens without importing this
// package.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*authmw.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
