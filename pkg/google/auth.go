package google

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/wayfare/wayfare/internal/config"
	"github.com/wayfare/wayfare/internal/rest"
	"github.com/wayfare/wayfare/pkg/user"
)

var ErrUnauthenticated = errors.New("user is not authenticated with Google")

type googleAuthRedirect struct {
	RedirectUrl string `json:"redirectUrl"`
}

// Auth manages the per-user Google OAuth tokens used for calendar export.
type Auth struct {
	db          *sql.DB
	userService user.Service
	oauthConfig *oauth2.Config
}

func NewAuth(db *sql.DB, userService user.Service, cfg config.Application) *Auth {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.Google.ClientId,
		ClientSecret: cfg.Google.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.Host + "/api/integrations/google/auth/callback",
		Scopes:       []string{calendar.CalendarEventsScope},
	}
	return &Auth{db: db, userService: userService, oauthConfig: oauthConfig}
}

func (g *Auth) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	currentUser, err := g.userService.GetCurrentUser(r.Context())
	if err != nil {
		log.Error("unable to retrieve current user: ", err)
		http.Error(w, "unable to retrieve current user", http.StatusInternalServerError)
		return
	}
	userId := currentUser.Id

	if _, err := g.db.Exec("DELETE FROM google_auth WHERE user_id = ?", userId); err != nil {
		log.Errorf("failed to delete old Google auth row for user %d: %v", userId, err)
		writeAuthFailure(w)
		return
	}

	stateNonce := uuid.New().String()
	finalUrl := r.URL.Query().Get("finalUrl")

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := g.db.Exec("INSERT INTO google_auth (user_id, nonce, updated_at) VALUES (?, ?, ?)", userId, stateNonce, now); err != nil {
		log.Errorf("failed to store Google auth nonce for user %d: %v", userId, err)
		writeAuthFailure(w)
		return
	}

	log.Tracef("Redirecting to Google auth URL with nonce: %s", stateNonce)
	u := g.oauthConfig.AuthCodeURL(finalUrl+"|"+stateNonce, oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(googleAuthRedirect{RedirectUrl: u}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (g *Auth) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	code := r.FormValue("code")
	state := r.FormValue("state")

	parts := strings.SplitN(state, "|", 2)
	if len(parts) != 2 {
		http.Error(w, "malformed state", http.StatusBadRequest)
		return
	}
	finalUrl := parts[0]
	nonce := parts[1]

	token, err := g.oauthConfig.Exchange(context.Background(), code)
	if err != nil {
		log.Errorf("unable to exchange code for token: %v", err)
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}

	tokenJSON, err := json.Marshal(token)
	if err != nil {
		log.Errorf("unable to encode Google auth token: %v", err)
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := g.db.Exec("UPDATE google_auth SET token_json = ?, updated_at = ? WHERE nonce = ?", string(tokenJSON), now, nonce); err != nil {
		log.Errorf("unable to store Google auth token for nonce: %v", err)
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}
	log.Debug("Successfully stored Google auth token for nonce: ", nonce)
	http.Redirect(w, r, finalUrl+"?success=true", http.StatusFound)
}

func (g *Auth) OAuthLogout(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	userId, err := user.CurrentId(r.Context())
	if err != nil {
		log.Error("unable to retrieve current user: ", err)
		http.Error(w, "unable to retrieve current user", http.StatusInternalServerError)
		return
	}

	if _, err := g.db.Exec("DELETE FROM google_auth WHERE user_id = ?", userId); err != nil {
		log.Errorf("failed to delete Google auth row for user %d: %v", userId, err)
		writeAuthFailure(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (g *Auth) getToken(ctx context.Context, userId int) (*oauth2.Token, error) {
	var tokenJSON sql.NullString
	err := g.db.QueryRowContext(ctx, "SELECT token_json FROM google_auth WHERE user_id = ?", userId).Scan(&tokenJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Google auth token: %w", err)
	}
	if !tokenJSON.Valid || tokenJSON.String == "" {
		return nil, nil
	}

	var token oauth2.Token
	if err := json.Unmarshal([]byte(tokenJSON.String), &token); err != nil {
		return nil, fmt.Errorf("unable to decode Google auth token: %w", err)
	}
	return &token, nil
}

// CalendarService returns a Google Calendar client acting as the user, or
// ErrUnauthenticated when no token is stored.
func (g *Auth) CalendarService(ctx context.Context, userId int) (*calendar.Service, error) {
	token, err := g.getToken(ctx, userId)
	if err != nil {
		log.Error(err)
		return nil, err
	}
	if token == nil {
		return nil, ErrUnauthenticated
	}

	httpClient := g.oauthConfig.Client(ctx, token)
	service, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create Google Calendar client: %w", err)
	}
	return service, nil
}

func writeAuthFailure(w http.ResponseWriter) {
	w.WriteHeader(http.StatusInternalServerError)
	if err := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Failed to handle Google authentication"}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
