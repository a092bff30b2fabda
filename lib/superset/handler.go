package supersethandler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"budget-portal-backend/config"
	filestorage "budget-portal-backend/lib/file-storage"
	supersetclient "budget-portal-backend/lib/superset/client"
	supersetapimodels "budget-portal-backend/models/api/superset"

	"github.com/golang-jwt/jwt/v5"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provider is the dashboard access broker: it decides which dashboards an
// anonymous visitor may embed and mints the short-lived guest tokens for
// them. Service credentials never leave this layer.
type Provider interface {
	ListPublicDashboards(ctx context.Context) ([]supersetapimodels.DashboardView, error)
	GetVisibilityInfo(ctx context.Context, idOrUUID string) (supersetapimodels.VisibilityInfo, error)
	// CreateGuestToken mints a token via the Superset API without
	// re-checking visibility, callers enforce policy first
	CreateGuestToken(ctx context.Context, dashboardUUID string, user *supersetapimodels.User, rls []supersetapimodels.RLS) (string, error)
	// GuestTokenForDashboard is the policy-checked path used by the public
	// API, only a definitive public verdict yields a token
	GuestTokenForDashboard(ctx context.Context, idOrUUID string) (string, error)
	// MintGuestToken signs a guest token locally with the shared secret,
	// skipping the Superset API round trip
	MintGuestToken(dashboardUUID string) (string, error)
}

var Instance Provider

const (
	dashboardListPath   string = "/api/v1/dashboard/"
	dashboardDetailPath string = "/api/v1/dashboard/%v"
	guestTokenPath      string = "/api/v1/security/guest_token/"

	guestUsername  string = "guest_user"
	guestFirstName string = "Guest"
	guestLastName  string = "User"

	guestTokenCacheKeyPattern string = "superset-guest-token:%v"

	reasonNotFound     string = "dashboard not found"
	reasonDraft        string = "dashboard is in draft status"
	reasonPublicRole   string = "dashboard has Public role access"
	reasonNoRoles      string = "dashboard has no roles (depends on dataset permissions)"
	reasonNoPublicRole string = "dashboard does not have Public role access"

	notEmbeddableHint string = "dashboard is not accessible via guest token, it must be published and have the Public role"
)

type Options struct {
	ResourcesType    string
	GuestTokenSecret string
	GuestTokenTTL    time.Duration
}

func NewHandler() {
	Instance = NewInstance(
		supersetclient.NewInstance(
			config.Conf.Superset.Host,
			config.Conf.Superset.Username,
			config.Conf.Superset.Password,
			supersetclient.Options{Timeout: time.Second * time.Duration(config.Conf.Superset.RequestTimeoutSec)},
		),
		filestorage.Instance,
		Options{
			ResourcesType:    config.Conf.Superset.ResourcesType,
			GuestTokenSecret: config.Conf.Superset.GuestTokenSecret,
			GuestTokenTTL:    time.Second * time.Duration(config.Conf.Superset.GuestTokenTTLInSec),
		},
	)
}

func NewInstance(client supersetclient.Provider, storage filestorage.Provider, opts Options) Provider {
	if opts.ResourcesType == "" {
		opts.ResourcesType = "dashboard"
	}
	if opts.GuestTokenTTL <= 0 {
		opts.GuestTokenTTL = 5 * time.Minute
	}
	return &impl{
		client:  client,
		storage: storage,
		opts:    opts,
		cache:   cache.New(opts.GuestTokenTTL, opts.GuestTokenTTL),
	}
}

type impl struct {
	client  supersetclient.Provider
	storage filestorage.Provider
	opts    Options
	cache   *cache.Cache
}

func (i *impl) ListPublicDashboards(ctx context.Context) ([]supersetapimodels.DashboardView, error) {
	body, err := i.client.Request(ctx, "GET", dashboardListPath, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list dashboards")
	}
	listResp := supersetapimodels.DashboardListResp{}
	if err = json.Unmarshal(body, &listResp); err != nil {
		return nil, &supersetclient.ProtocolError{Msg: "failed to decode dashboard list response"}
	}
	result := make([]supersetapimodels.DashboardView, 0, len(listResp.Result))
	for _, dashboard := range listResp.Result {
		// published filter first, it is the cheaper cut
		if !dashboard.Published {
			continue
		}
		if !dashboard.HasPublicRole() {
			continue
		}
		view := FormatForFrontend(dashboard)
		view.ThumbnailURL = i.publicThumbnailURL(ctx, dashboard)
		result = append(result, view)
	}
	log.WithField("count", len(result)).Info("listed public dashboards")
	return result, nil
}

func (i *impl) GetVisibilityInfo(ctx context.Context, idOrUUID string) (supersetapimodels.VisibilityInfo, error) {
	dashboard, found, err := i.getDashboard(ctx, idOrUUID)
	if err != nil {
		return supersetapimodels.VisibilityInfo{}, err
	}
	if !found {
		return supersetapimodels.VisibilityInfo{
			Access: supersetapimodels.AccessDenied,
			Reason: reasonNotFound,
		}, nil
	}
	return resolveVisibility(dashboard), nil
}

func (i *impl) CreateGuestToken(ctx context.Context, dashboardUUID string, user *supersetapimodels.User, rls []supersetapimodels.RLS) (string, error) {
	// only the default anonymous scope is cached, a token minted for a custom
	// user or RLS rule set must never be handed to a different scope
	cacheable := user == nil && len(rls) == 0
	cacheKey := fmt.Sprintf(guestTokenCacheKeyPattern, dashboardUUID)
	if cacheable {
		if cached, ok := i.cache.Get(cacheKey); ok {
			return cached.(string), nil
		}
	}
	if user == nil {
		user = &supersetapimodels.User{
			Username:  guestUsername,
			FirstName: guestFirstName,
			LastName:  guestLastName,
		}
	}
	if rls == nil {
		rls = []supersetapimodels.RLS{}
	}
	guestReq := supersetapimodels.SupersetGuestTokenReq{
		Resources: []supersetapimodels.Resource{
			{ID: dashboardUUID, Type: i.opts.ResourcesType},
		},
		RLS:  rls,
		User: *user,
	}
	body, err := i.client.Request(ctx, "POST", guestTokenPath, guestReq)
	if err != nil {
		var remoteErr *supersetclient.RemoteError
		if errors.As(err, &remoteErr) && remoteErr.Status == http.StatusForbidden {
			return "", &supersetclient.NotEmbeddableError{Reason: notEmbeddableHint}
		}
		return "", errors.Wrap(err, "failed to get guest token")
	}
	tokenResp := supersetapimodels.GuestTokenResp{}
	if err = json.Unmarshal(body, &tokenResp); err != nil {
		return "", &supersetclient.ProtocolError{Msg: "failed to decode guest token response"}
	}
	if tokenResp.Token == "" {
		return "", &supersetclient.ProtocolError{Msg: "guest token response has no token"}
	}
	// tokens are short-lived, cache for a fraction of the TTL so parallel
	// page loads of the same dashboard share one token
	if cacheable {
		i.cache.Set(cacheKey, tokenResp.Token, i.opts.GuestTokenTTL/5)
	}
	log.WithField("dashboard_uuid", dashboardUUID).Info("created guest token")
	return tokenResp.Token, nil
}

func (i *impl) GuestTokenForDashboard(ctx context.Context, idOrUUID string) (string, error) {
	info, err := i.GetVisibilityInfo(ctx, idOrUUID)
	if err != nil {
		return "", err
	}
	// default-deny: the anonymous portal only embeds dashboards with a
	// definitive public verdict, "unknown" is not a promise we can keep
	if info.Access != supersetapimodels.AccessPublic {
		return "", &supersetclient.NotEmbeddableError{Reason: info.Reason}
	}
	return i.CreateGuestToken(ctx, info.UUID, nil, nil)
}

func (i *impl) MintGuestToken(dashboardUUID string) (string, error) {
	if i.opts.GuestTokenSecret == "" {
		return "", errors.New("guest token secret is not configured")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"user": map[string]string{
			"username":   guestUsername,
			"first_name": guestFirstName,
			"last_name":  guestLastName,
		},
		"resources": []map[string]string{
			{"type": i.opts.ResourcesType, "id": dashboardUUID},
		},
		"rls":  []interface{}{},
		"iat":  now.Unix(),
		"exp":  now.Add(i.opts.GuestTokenTTL).Unix(),
		"type": "guest",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(i.opts.GuestTokenSecret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign guest token")
	}
	return signed, nil
}

func (i *impl) getDashboard(ctx context.Context, idOrUUID string) (supersetapimodels.Dashboard, bool, error) {
	body, err := i.client.Request(ctx, "GET", fmt.Sprintf(dashboardDetailPath, idOrUUID), nil)
	if err != nil {
		var remoteErr *supersetclient.RemoteError
		if errors.As(err, &remoteErr) && remoteErr.Status == http.StatusNotFound {
			return supersetapimodels.Dashboard{}, false, nil
		}
		return supersetapimodels.Dashboard{}, false, errors.Wrapf(err, "failed to get dashboard %v", idOrUUID)
	}
	detailResp := supersetapimodels.DashboardDetailResp{}
	if err = json.Unmarshal(body, &detailResp); err != nil {
		return supersetapimodels.Dashboard{}, false, &supersetclient.ProtocolError{Msg: "failed to decode dashboard detail response"}
	}
	return detailResp.Result, true, nil
}

// publicThumbnailURL proxies the dashboard thumbnail into object storage so
// visitors get an image without the service bearer token ever reaching the
// browser. Best effort, listing works without thumbnails.
func (i *impl) publicThumbnailURL(ctx context.Context, dashboard supersetapimodels.Dashboard) string {
	if dashboard.ThumbnailURL == "" || i.storage == nil {
		return ""
	}
	logger := log.WithField("dashboard_uuid", dashboard.UUID)
	data, err := i.client.Request(ctx, "GET", dashboard.ThumbnailURL, nil)
	if err != nil {
		logger.WithError(err).Warn("failed to fetch dashboard thumbnail")
		return ""
	}
	url, err := i.storage.UploadThumbnail(ctx, dashboard.UUID, data, "image/png")
	if err != nil {
		logger.WithError(err).Warn("failed to store dashboard thumbnail")
		return ""
	}
	return url
}

func resolveVisibility(dashboard supersetapimodels.Dashboard) supersetapimodels.VisibilityInfo {
	info := supersetapimodels.VisibilityInfo{
		ID:            dashboard.ID,
		UUID:          dashboard.UUID,
		Title:         dashboard.DashboardTitle,
		Published:     dashboard.Published,
		Roles:         dashboard.RoleNames(),
		HasPublicRole: dashboard.HasPublicRole(),
		Owners:        ownerNames(dashboard.Owners),
		ThumbnailURL:  dashboard.ThumbnailURL,
		URL:           dashboard.URL,
	}
	switch {
	case !dashboard.Published:
		info.Access = supersetapimodels.AccessDenied
		info.Reason = reasonDraft
	case info.HasPublicRole:
		info.Access = supersetapimodels.AccessPublic
		info.Reason = reasonPublicRole
	case len(dashboard.Roles) == 0:
		// dataset-level permissions may still grant access, the dashboard
		// metadata alone cannot prove either way
		info.Access = supersetapimodels.AccessUnknown
		info.Reason = reasonNoRoles
	default:
		info.Access = supersetapimodels.AccessDenied
		info.Reason = reasonNoPublicRole
	}
	return info
}

func FormatForFrontend(dashboard supersetapimodels.Dashboard) supersetapimodels.DashboardView {
	title := dashboard.DashboardTitle
	if title == "" {
		title = "Untitled Dashboard"
	}
	owners := make([]supersetapimodels.OwnerView, 0, len(dashboard.Owners))
	for _, owner := range dashboard.Owners {
		name := strings.TrimSpace(owner.FirstName + " " + owner.LastName)
		if name == "" {
			name = owner.Username
		}
		owners = append(owners, supersetapimodels.OwnerView{
			Username: owner.Username,
			Name:     name,
		})
	}
	return supersetapimodels.DashboardView{
		ID:          dashboard.ID,
		UUID:        dashboard.UUID,
		Title:       title,
		URL:         dashboard.URL,
		Published:   dashboard.Published,
		Owners:      owners,
		Roles:       dashboard.RoleNames(),
		IsPublic:    dashboard.HasPublicRole(),
		ChartsCount: len(dashboard.Slices),
		ChangedOn:   dashboard.ChangedOn,
	}
}

func ownerNames(owners []supersetapimodels.DashboardOwner) []string {
	names := make([]string, 0, len(owners))
	for _, owner := range owners {
		if owner.Username != "" {
			names = append(names, owner.Username)
			continue
		}
		names = append(names, "unknown")
	}
	return names
}
