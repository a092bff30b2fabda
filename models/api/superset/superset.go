package supersetapimodels

import "strings"

type SupersetLoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Provider string `json:"provider"`
	Refresh  bool   `json:"refresh"`
}

type SupersetLoginResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type CsrfTokenResp struct {
	Result string `json:"result"`
}

type SupersetGuestTokenReq struct {
	Resources []Resource `json:"resources"`
	RLS       []RLS      `json:"rls"`
	User      User       `json:"user"`
}

type GuestTokenResp struct {
	Token string `json:"token"`
}

type Resource struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type RLS struct {
	Clause  string `json:"clause"`
	Dataset int    `json:"dataset,omitempty"`
}

type User struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

type DashboardRole struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type DashboardOwner struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type ChartRef struct {
	ID        int    `json:"id"`
	SliceName string `json:"slice_name"`
}

// Dashboard is the payload shape of GET /api/v1/dashboard/ items
type Dashboard struct {
	ID             int              `json:"id"`
	UUID           string           `json:"uuid"`
	DashboardTitle string           `json:"dashboard_title"`
	Published      bool             `json:"published"`
	Roles          []DashboardRole  `json:"roles"`
	Owners         []DashboardOwner `json:"owners"`
	ThumbnailURL   string           `json:"thumbnail_url"`
	URL            string           `json:"url"`
	Slices         []ChartRef       `json:"slices"`
	ChangedOn      string           `json:"changed_on"`
}

func (d Dashboard) RoleNames() []string {
	names := make([]string, 0, len(d.Roles))
	for _, role := range d.Roles {
		names = append(names, role.Name)
	}
	return names
}

func (d Dashboard) HasPublicRole() bool {
	for _, role := range d.Roles {
		if strings.EqualFold(role.Name, "public") {
			return true
		}
	}
	return false
}

type DashboardListResp struct {
	Count  int         `json:"count"`
	Result []Dashboard `json:"result"`
}

type DashboardDetailResp struct {
	Result Dashboard `json:"result"`
}

// Accessibility is the guest-token verdict for a dashboard.
// Only published dashboards with an explicit Public role are ever AccessPublic;
// a published dashboard without any role is AccessUnknown because dataset-level
// permissions may still grant access that the dashboard metadata cannot show.
type Accessibility string

const (
	AccessPublic  Accessibility = "public"
	AccessDenied  Accessibility = "denied"
	AccessUnknown Accessibility = "unknown"
)

type VisibilityInfo struct {
	ID            int           `json:"id"`
	UUID          string        `json:"uuid"`
	Title         string        `json:"title"`
	Published     bool          `json:"published"`
	Roles         []string      `json:"roles"`
	HasPublicRole bool          `json:"has_public_role"`
	Access        Accessibility `json:"guest_token_accessible"`
	Reason        string        `json:"reason"`
	Owners        []string      `json:"owners"`
	ThumbnailURL  string        `json:"thumbnail_url,omitempty"`
	URL           string        `json:"url,omitempty"`
}

type OwnerView struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

// DashboardView is the wire-safe dashboard shape for the portal frontend,
// it must never carry token material
type DashboardView struct {
	ID           int         `json:"id"`
	UUID         string      `json:"uuid"`
	Title        string      `json:"title"`
	URL          string      `json:"url"`
	Published    bool        `json:"published"`
	ThumbnailURL string      `json:"thumbnail_url,omitempty"`
	Owners       []OwnerView `json:"owners"`
	Roles        []string    `json:"roles"`
	IsPublic     bool        `json:"is_public"`
	ChartsCount  int         `json:"charts_count"`
	ChangedOn    string      `json:"changed_on,omitempty"`
}

type GuestTokenView struct {
	GuestToken string `json:"guest_token"`
}
