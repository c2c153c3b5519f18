package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/username/brokercrm/backend/src/database"
	"github.com/username/brokercrm/backend/src/logger"
	"github.com/username/brokercrm/backend/src/model"
	"golang.org/x/oauth2"
)

// quickBooksEndpoint holds the Intuit OAuth2 authorization and token URLs.
var quickBooksEndpoint = oauth2.Endpoint{
	AuthURL:  "https://appcenter.intuit.com/connect/oauth2",
	TokenURL: "https://oauth.platform.intuit.com/oauth2/v1/tokens/bearer",
}

// NewQuickBooksOAuthConfig builds the OAuth2 config shared by the connect
// flow and the credential source.
func NewQuickBooksOAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"com.intuit.quickbooks.accounting"},
		Endpoint:     quickBooksEndpoint,
	}
}

// storedCredentialSource serves credentials from the persisted QuickBooks
// connection, refreshing the access token through the OAuth2 token endpoint
// when it has expired and writing the rotated token back to the store.
type storedCredentialSource struct {
	oauthConfig *oauth2.Config
	mu          sync.Mutex
}

func NewStoredCredentialSource(oauthConfig *oauth2.Config) CredentialSource {
	return &storedCredentialSource{oauthConfig: oauthConfig}
}

func (s *storedCredentialSource) EnsureValidCredential(ctx context.Context) (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	connection, err := model.GetConnection(database.DB)
	if err != nil {
		return nil, fmt.Errorf("no usable accounting connection: %w", err)
	}

	token := &oauth2.Token{
		AccessToken:  connection.AccessToken,
		RefreshToken: connection.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       connection.TokenExpiry,
	}

	if token.Valid() {
		return &Credential{Token: token, RealmID: connection.RealmID}, nil
	}

	logger.L.Info("QuickBooks access token expired, refreshing", "realmID", connection.RealmID)
	refreshed, err := s.oauthConfig.TokenSource(ctx, token).Token()
	if err != nil {
		return nil, fmt.Errorf("refreshing access token: %w", err)
	}

	connection.AccessToken = refreshed.AccessToken
	if refreshed.RefreshToken != "" {
		connection.RefreshToken = refreshed.RefreshToken
	}
	connection.TokenExpiry = refreshed.Expiry
	if err := model.SaveConnection(database.DB, connection); err != nil {
		// The refreshed token is still usable for this request.
		logger.L.Error("Failed to persist refreshed QuickBooks token", "realmID", connection.RealmID, "error", err)
	}

	return &Credential{Token: refreshed, RealmID: connection.RealmID}, nil
}
