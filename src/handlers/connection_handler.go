package handlers

import (
	"net/http"
	"time"

	"github.com/username/brokercrm/backend/src/config"
	"github.com/username/brokercrm/backend/src/database"
	"github.com/username/brokercrm/backend/src/logger"
	"github.com/username/brokercrm/backend/src/model"
	"golang.org/x/oauth2"
)

// ConnectionHandler runs the QuickBooks Online OAuth connect flow and
// persists the resulting company connection.
type ConnectionHandler struct {
	oauthConfig *oauth2.Config
}

func NewConnectionHandler(oauthConfig *oauth2.Config) *ConnectionHandler {
	return &ConnectionHandler{oauthConfig: oauthConfig}
}

// HandleConnect redirects the browser to the Intuit consent screen.
func (h *ConnectionHandler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	url := h.oauthConfig.AuthCodeURL(config.Cfg.OAuthStateString)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// HandleCallback exchanges the authorization code and stores the tokens for
// the selected realm.
func (h *ConnectionHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	if r.FormValue("state") != config.Cfg.OAuthStateString {
		ctxLogger.Warn("Invalid OAuth state from QuickBooks callback")
		http.Redirect(w, r, config.Cfg.FrontendBaseURL+"/settings/accounting?error=invalid_state", http.StatusTemporaryRedirect)
		return
	}

	realmID := r.FormValue("realmId")
	if realmID == "" {
		ctxLogger.Warn("QuickBooks callback missing realmId")
		http.Redirect(w, r, config.Cfg.FrontendBaseURL+"/settings/accounting?error=missing_realm", http.StatusTemporaryRedirect)
		return
	}

	code := r.FormValue("code")
	token, err := h.oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		ctxLogger.Error("Failed to exchange code for QuickBooks token", "error", err)
		http.Redirect(w, r, config.Cfg.FrontendBaseURL+"/settings/accounting?error=token_exchange_failed", http.StatusTemporaryRedirect)
		return
	}

	connection := &model.Connection{
		RealmID:      realmID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenExpiry:  token.Expiry,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := model.SaveConnection(database.DB, connection); err != nil {
		ctxLogger.Error("Failed to persist QuickBooks connection", "realmID", realmID, "error", err)
		http.Redirect(w, r, config.Cfg.FrontendBaseURL+"/settings/accounting?error=connection_save_failed", http.StatusTemporaryRedirect)
		return
	}

	ctxLogger.Info("QuickBooks connection established", "realmID", realmID)
	http.Redirect(w, r, config.Cfg.FrontendBaseURL+"/settings/accounting?connected=1", http.StatusTemporaryRedirect)
}
