package supersethandler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	supersetclient "budget-portal-backend/lib/superset/client"
	supersetapimodels "budget-portal-backend/models/api/superset"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	dashboards []supersetapimodels.Dashboard
	guestToken string
	guestErr   error
	requests   []string
	mintReqs   []supersetapimodels.SupersetGuestTokenReq
}

func (f *fakeClient) Request(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	f.requests = append(f.requests, method+" "+path)
	if method == "POST" && path == guestTokenPath {
		if f.guestErr != nil {
			return nil, f.guestErr
		}
		f.mintReqs = append(f.mintReqs, body.(supersetapimodels.SupersetGuestTokenReq))
		return json.Marshal(supersetapimodels.GuestTokenResp{Token: f.guestToken})
	}
	if path == dashboardListPath {
		return json.Marshal(supersetapimodels.DashboardListResp{
			Count:  len(f.dashboards),
			Result: f.dashboards,
		})
	}
	id := strings.TrimPrefix(path, "/api/v1/dashboard/")
	for _, dashboard := range f.dashboards {
		if dashboard.UUID == id || fmt.Sprint(dashboard.ID) == id {
			return json.Marshal(supersetapimodels.DashboardDetailResp{Result: dashboard})
		}
	}
	return nil, &supersetclient.RemoteError{Status: http.StatusNotFound, Msg: "not found"}
}

func (f *fakeClient) InvalidateTokens() {}

func publicDashboard(id int, uuid string) supersetapimodels.Dashboard {
	return supersetapimodels.Dashboard{
		ID:             id,
		UUID:           uuid,
		DashboardTitle: "Budget Overview",
		Published:      true,
		Roles:          []supersetapimodels.DashboardRole{{ID: 1, Name: "Public"}},
	}
}

func newTestHandler(client *fakeClient) Provider {
	return NewInstance(client, nil, Options{
		GuestTokenSecret: "s3cret",
		GuestTokenTTL:    5 * time.Minute,
	})
}

func TestVisibility(t *testing.T) {
	t.Run(`published with Public role`, func(t *testing.T) {
		client := &fakeClient{dashboards: []supersetapimodels.Dashboard{publicDashboard(1, "uuid-1")}}
		info, err := newTestHandler(client).GetVisibilityInfo(context.TODO(), "uuid-1")
		require.Nil(t, err)
		require.Equal(t, supersetapimodels.AccessPublic, info.Access)
		require.Equal(t, reasonPublicRole, info.Reason)
	})

	t.Run(`role match is case-insensitive`, func(t *testing.T) {
		dashboard := publicDashboard(1, "uuid-1")
		dashboard.Roles = []supersetapimodels.DashboardRole{{ID: 1, Name: "PUBLIC"}}
		client := &fakeClient{dashboards: []supersetapimodels.Dashboard{dashboard}}
		info, err := newTestHandler(client).GetVisibilityInfo(context.TODO(), "uuid-1")
		require.Nil(t, err)
		require.Equal(t, supersetapimodels.AccessPublic, info.Access)
	})

	t.Run(`draft is denied`, func(t *testing.T) {
		dashboard := publicDashboard(1, "uuid-1")
		dashboard.Published = false
		client := &fakeClient{dashboards: []supersetapimodels.Dashboard{dashboard}}
		info, err := newTestHandler(client).GetVisibilityInfo(context.TODO(), "uuid-1")
		require.Nil(t, err)
		require.Equal(t, supersetapimodels.AccessDenied, info.Access)
		require.Equal(t, reasonDraft, info.Reason)
	})

	t.Run(`published without roles is unknown`, func(t *testing.T) {
		dashboard := publicDashboard(1, "uuid-1")
		dashboard.Roles = nil
		client := &fakeClient{dashboards: []supersetapimodels.Dashboard{dashboard}}
		info, err := newTestHandler(client).GetVisibilityInfo(context.TODO(), "uuid-1")
		require.Nil(t, err)
		require.Equal(t, supersetapimodels.AccessUnknown, info.Access)
		require.Equal(t, reasonNoRoles, info.Reason)
	})

	t.Run(`published with only private roles is denied`, func(t *testing.T) {
		dashboard := publicDashboard(1, "uuid-1")
		dashboard.Roles = []supersetapimodels.DashboardRole{{ID: 2, Name: "Gamma"}}
		client := &fakeClient{dashboards: []supersetapimodels.Dashboard{dashboard}}
		info, err := newTestHandler(client).GetVisibilityInfo(context.TODO(), "uuid-1")
		require.Nil(t, err)
		require.Equal(t, supersetapimodels.AccessDenied, info.Access)
		require.Equal(t, reasonNoPublicRole, info.Reason)
	})

	t.Run(`missing dashboard is denied, not an error`, func(t *testing.T) {
		client := &fakeClient{}
		info, err := newTestHandler(client).GetVisibilityInfo(context.TODO(), "no-such")
		require.Nil(t, err)
		require.Equal(t, supersetapimodels.AccessDenied, info.Access)
		require.Equal(t, reasonNotFound, info.Reason)
	})
}

func TestListPublicDashboards(t *testing.T) {
	draft := publicDashboard(2, "uuid-2")
	draft.Published = false
	roleless := publicDashboard(3, "uuid-3")
	roleless.Roles = nil
	private := publicDashboard(4, "uuid-4")
	private.Roles = []supersetapimodels.DashboardRole{{ID: 2, Name: "Gamma"}}
	client := &fakeClient{dashboards: []supersetapimodels.Dashboard{
		publicDashboard(1, "uuid-1"), draft, roleless, private,
	}}

	list, err := newTestHandler(client).ListPublicDashboards(context.TODO())
	require.Nil(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "uuid-1", list[0].UUID)
	require.True(t, list[0].IsPublic)
}

func TestGuestToken(t *testing.T) {
	t.Run(`token for a public dashboard`, func(t *testing.T) {
		client := &fakeClient{
			dashboards: []supersetapimodels.Dashboard{publicDashboard(1, "uuid-1")},
			guestToken: "guest-jwt",
		}
		token, err := newTestHandler(client).GuestTokenForDashboard(context.TODO(), "uuid-1")
		require.Nil(t, err)
		require.Equal(t, "guest-jwt", token)
	})

	t.Run(`unknown verdict never reaches the token endpoint`, func(t *testing.T) {
		dashboard := publicDashboard(1, "uuid-1")
		dashboard.Roles = nil
		client := &fakeClient{
			dashboards: []supersetapimodels.Dashboard{dashboard},
			guestToken: "guest-jwt",
		}
		_, err := newTestHandler(client).GuestTokenForDashboard(context.TODO(), "uuid-1")
		require.NotNil(t, err)
		notEmbeddable := &supersetclient.NotEmbeddableError{}
		require.True(t, errors.As(err, &notEmbeddable))
		require.Equal(t, reasonNoRoles, notEmbeddable.Reason)
		for _, req := range client.requests {
			require.NotContains(t, req, guestTokenPath)
		}
	})

	t.Run(`upstream 403 maps to not embeddable`, func(t *testing.T) {
		client := &fakeClient{
			guestErr: &supersetclient.RemoteError{Status: http.StatusForbidden, Msg: "guest token denied"},
		}
		_, err := newTestHandler(client).CreateGuestToken(context.TODO(), "uuid-1", nil, nil)
		require.NotNil(t, err)
		notEmbeddable := &supersetclient.NotEmbeddableError{}
		require.True(t, errors.As(err, &notEmbeddable))
	})

	t.Run(`empty token in a 2xx response`, func(t *testing.T) {
		client := &fakeClient{guestToken: ""}
		_, err := newTestHandler(client).CreateGuestToken(context.TODO(), "uuid-1", nil, nil)
		require.NotNil(t, err)
		protocolErr := &supersetclient.ProtocolError{}
		require.True(t, errors.As(err, &protocolErr))
	})

	t.Run(`token is cached per dashboard`, func(t *testing.T) {
		client := &fakeClient{guestToken: "guest-jwt"}
		handler := newTestHandler(client)
		_, err := handler.CreateGuestToken(context.TODO(), "uuid-1", nil, nil)
		require.Nil(t, err)
		_, err = handler.CreateGuestToken(context.TODO(), "uuid-1", nil, nil)
		require.Nil(t, err)
		require.Len(t, client.requests, 1)
	})

	t.Run(`rls scopes never share a token`, func(t *testing.T) {
		client := &fakeClient{guestToken: "guest-jwt"}
		handler := newTestHandler(client)
		_, err := handler.CreateGuestToken(context.TODO(), "uuid-1",
			nil, []supersetapimodels.RLS{{Clause: "region = 'A'"}})
		require.Nil(t, err)
		_, err = handler.CreateGuestToken(context.TODO(), "uuid-1",
			nil, []supersetapimodels.RLS{{Clause: "region = 'B'"}})
		require.Nil(t, err)
		require.Len(t, client.mintReqs, 2)
		require.Equal(t, "region = 'A'", client.mintReqs[0].RLS[0].Clause)
		require.Equal(t, "region = 'B'", client.mintReqs[1].RLS[0].Clause)
	})

	t.Run(`custom user never shares a token`, func(t *testing.T) {
		client := &fakeClient{guestToken: "guest-jwt"}
		handler := newTestHandler(client)
		_, err := handler.CreateGuestToken(context.TODO(), "uuid-1",
			&supersetapimodels.User{Username: "auditor"}, nil)
		require.Nil(t, err)
		_, err = handler.CreateGuestToken(context.TODO(), "uuid-1", nil, nil)
		require.Nil(t, err)
		require.Len(t, client.mintReqs, 2)
		require.Equal(t, "auditor", client.mintReqs[0].User.Username)
		require.Equal(t, guestUsername, client.mintReqs[1].User.Username)
	})
}

func TestMintGuestToken(t *testing.T) {
	handler := newTestHandler(&fakeClient{})
	signed, err := handler.MintGuestToken("uuid-1")
	require.Nil(t, err)

	token, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return []byte("s3cret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.Nil(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	require.Equal(t, "guest", claims["type"])
	resources := claims["resources"].([]interface{})
	require.Len(t, resources, 1)
	resource := resources[0].(map[string]interface{})
	require.Equal(t, "dashboard", resource["type"])
	require.Equal(t, "uuid-1", resource["id"])
	user := claims["user"].(map[string]interface{})
	require.Equal(t, guestUsername, user["username"])
	iat := int64(claims["iat"].(float64))
	exp := int64(claims["exp"].(float64))
	require.Equal(t, int64(300), exp-iat)
}

func TestFormatForFrontend(t *testing.T) {
	dashboard := publicDashboard(1, "uuid-1")
	dashboard.DashboardTitle = ""
	dashboard.Owners = []supersetapimodels.DashboardOwner{
		{Username: "budi", FirstName: "Budi", LastName: "Santoso"},
		{Username: "svc-account"},
	}
	view := FormatForFrontend(dashboard)
	require.Equal(t, "Untitled Dashboard", view.Title)
	require.Len(t, view.Owners, 2)
	require.Equal(t, "Budi Santoso", view.Owners[0].Name)
	require.Equal(t, "svc-account", view.Owners[1].Name)
}
