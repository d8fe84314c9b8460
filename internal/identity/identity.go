package identity

import (
	"net/http"
	"time"

	"github.com/avdeev/go-storefront/internal/domain"
	"github.com/google/uuid"
)

const (
	// GuestCookie carries the opaque guest id between requests.
	GuestCookie = "guest_id"
	guestTTL    = 30 * 24 * time.Hour
)

// Provider yields the verified user for a request, if any. This is the
// boundary to the identity provider; its claims are trusted as-is.
type Provider interface {
	UserFromRequest(r *http.Request) (*domain.User, bool)
}

// HeaderProvider trusts the identity headers set by the auth layer in front
// of this service.
type HeaderProvider struct{}

func (HeaderProvider) UserFromRequest(r *http.Request) (*domain.User, bool) {
	id := r.Header.Get("X-User-Id")
	if id == "" {
		return nil, false
	}
	return &domain.User{
		ID:    id,
		Email: r.Header.Get("X-User-Email"),
		Name:  r.Header.Get("X-User-Name"),
		Role:  r.Header.Get("X-User-Role"),
	}, true
}

type Resolver struct {
	provider Provider
}

func NewResolver(provider Provider) *Resolver {
	return &Resolver{provider: provider}
}

// Resolve returns the owner the request operates under. A verified user wins;
// otherwise an existing guest cookie is reused, and only if neither is present
// a fresh guest id is minted and set. Repeated calls within a session keep
// returning the same id.
func (rs *Resolver) Resolve(w http.ResponseWriter, r *http.Request) domain.Owner {
	if user, ok := rs.provider.UserFromRequest(r); ok {
		return domain.Owner{ID: user.ID}
	}

	if c, err := r.Cookie(GuestCookie); err == nil && c.Value != "" {
		return domain.Owner{ID: c.Value, Guest: true}
	}

	guestID := "guest_" + uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     GuestCookie,
		Value:    guestID,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(guestTTL.Seconds()),
	})
	return domain.Owner{ID: guestID, Guest: true}
}
