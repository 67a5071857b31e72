package dataverse

import (
	"context"
	"fmt"
	"sort"
)

// BusinessUnitRef is the expanded businessunitid navigation property.
type BusinessUnitRef struct {
	ID   string `json:"businessunitid,omitempty"`
	Name string `json:"name,omitempty"`
}

// SystemUser is a row of the systemusers entity set.
type SystemUser struct {
	ID           string           `json:"systemuserid"`
	FullName     string           `json:"fullname,omitempty"`
	DomainName   string           `json:"domainname,omitempty"`
	Email        string           `json:"internalemailaddress,omitempty"`
	IsDisabled   bool             `json:"isdisabled,omitempty"`
	Title        string           `json:"title,omitempty"`
	CreatedOn    string           `json:"createdon,omitempty"`
	BusinessUnit *BusinessUnitRef `json:"businessunitid,omitempty"`
}

// Label returns the full name, then the domain name.
func (u SystemUser) Label() string {
	switch {
	case u.FullName != "":
		return u.FullName
	case u.DomainName != "":
		return u.DomainName
	}
	return "Unknown"
}

// Status is "Disabled" or "Enabled".
func (u SystemUser) Status() string {
	if u.IsDisabled {
		return "Disabled"
	}
	return "Enabled"
}

// BusinessUnitName returns the expanded business unit name or "-".
func (u SystemUser) BusinessUnitName() string {
	return businessUnitName(u.BusinessUnit)
}

// Team is a team a user belongs to.
type Team struct {
	ID          string `json:"teamid"`
	Name        string `json:"name"`
	TeamType    *int   `json:"teamtype,omitempty"`
	Description string `json:"description,omitempty"`
	IsDefault   bool   `json:"isdefault,omitempty"`
}

// TypeName returns the team type label.
func (t Team) TypeName() string {
	if t.TeamType == nil {
		return "Unknown"
	}
	switch *t.TeamType {
	case 0:
		return "Owner"
	case 1:
		return "Access"
	case 2:
		return "AAD Security Group"
	case 3:
		return "AAD Office Group"
	}
	return "Unknown"
}

// SecurityRole is a role assigned to a user or team.
type SecurityRole struct {
	ID           string           `json:"roleid"`
	Name         string           `json:"name"`
	IsManaged    bool             `json:"ismanaged,omitempty"`
	BusinessUnit *BusinessUnitRef `json:"businessunitid,omitempty"`
}

// BusinessUnitName returns the expanded business unit name or "-".
func (r SecurityRole) BusinessUnitName() string {
	return businessUnitName(r.BusinessUnit)
}

func businessUnitName(bu *BusinessUnitRef) string {
	if bu == nil || bu.Name == "" {
		return "-"
	}
	return bu.Name
}

// RoleAssignment is a role together with how the user holds it. Team is
// empty for direct assignments.
type RoleAssignment struct {
	Role SecurityRole
	Team string
}

// Source is "Direct" or "Team: <name>".
func (a RoleAssignment) Source() string {
	if a.Team == "" {
		return "Direct"
	}
	return "Team: " + a.Team
}

// MergeRoles combines direct roles with the roles inherited through teams,
// sorted by role name. teamRoles is indexed like teams.
func MergeRoles(direct []SecurityRole, teams []Team, teamRoles [][]SecurityRole) []RoleAssignment {
	all := make([]RoleAssignment, 0, len(direct))
	for _, r := range direct {
		all = append(all, RoleAssignment{Role: r})
	}
	for i, roles := range teamRoles {
		if i >= len(teams) {
			break
		}
		for _, r := range roles {
			all = append(all, RoleAssignment{Role: r, Team: teams[i].Name})
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Role.Name < all[j].Role.Name })
	return all
}

const (
	userSelect = "systemuserid,fullname,domainname,internalemailaddress,isdisabled,title,createdon"
	buExpand   = "businessunitid($select=businessunitid,name)"
	teamSelect = "teamid,name,teamtype,description,isdefault"
	roleSelect = "roleid,name,ismanaged"
)

// Users lists system users ordered by full name. Disabled users are left
// out unless includeDisabled is set.
func (c *Client) Users(ctx context.Context, includeDisabled bool) ([]SystemUser, error) {
	endpoint := "systemusers?$select=" + userSelect + "&$expand=" + buExpand
	if !includeDisabled {
		endpoint += "&$filter=isdisabled eq false"
	}
	endpoint += "&$orderby=fullname"

	var resp ODataResponse[SystemUser]
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// UserTeams lists the teams userID is a member of.
func (c *Client) UserTeams(ctx context.Context, userID string) ([]Team, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	var resp ODataResponse[Team]
	endpoint := fmt.Sprintf("systemusers(%s)/teammembership_association?$select=%s", id, teamSelect)
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// UserRoles lists the security roles assigned directly to userID.
func (c *Client) UserRoles(ctx context.Context, userID string) ([]SecurityRole, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	var resp ODataResponse[SecurityRole]
	endpoint := fmt.Sprintf("systemusers(%s)/systemuserroles_association?$select=%s&$expand=%s", id, roleSelect, buExpand)
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// TeamRoles lists the security roles assigned to teamID.
func (c *Client) TeamRoles(ctx context.Context, teamID string) ([]SecurityRole, error) {
	id, err := parseID(teamID)
	if err != nil {
		return nil, err
	}
	var resp ODataResponse[SecurityRole]
	endpoint := fmt.Sprintf("teams(%s)/teamroles_association?$select=%s&$expand=%s", id, roleSelect, buExpand)
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.Value, nil
}
