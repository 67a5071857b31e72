package dataverse

import (
	"context"
	"fmt"
)

// Solution is a row of the solutions entity set.
type Solution struct {
	SolutionID   string `json:"solutionid"`
	UniqueName   string `json:"uniquename"`
	FriendlyName string `json:"friendlyname,omitempty"`
	Version      string `json:"version,omitempty"`
	IsManaged    *bool  `json:"ismanaged,omitempty"`
	Description  string `json:"description,omitempty"`
	InstalledOn  string `json:"installedon,omitempty"`
}

// Label returns the friendly name or falls back to the unique name.
func (s Solution) Label() string {
	if s.FriendlyName != "" {
		return s.FriendlyName
	}
	return s.UniqueName
}

// Managed reports whether the solution is managed.
func (s Solution) Managed() bool {
	return s.IsManaged != nil && *s.IsManaged
}

// SolutionComponent is one component included in a solution.
type SolutionComponent struct {
	SolutionComponentID   string `json:"solutioncomponentid"`
	ComponentType         int    `json:"componenttype"`
	ObjectID              string `json:"objectid,omitempty"`
	RootComponentBehavior *int   `json:"rootcomponentbehavior,omitempty"`
}

// TypeName returns a readable name for the component type code.
func (c SolutionComponent) TypeName() string {
	return ComponentTypeName(c.ComponentType)
}

var componentTypeNames = map[int]string{
	1:  "Entity",
	2:  "Attribute",
	3:  "Relationship",
	9:  "Option Set",
	10: "Entity Relationship",
	13: "Managed Property",
	14: "Entity Key",
	20: "Security Role",
	21: "Role Privilege",
	26: "View",
	29: "Workflow/Flow",
	31: "Report",
	36: "Email Template",
	37: "Contract Template",
	38: "KB Article Template",
	39: "Mail Merge Template",
	44: "Duplicate Rule",
	48: "Entity Ribbon",
	50: "Ribbon",
	52: "Ribbon Command",
	53: "Ribbon Context",
	55: "Ribbon Diff",
	59: "Chart",
	60: "Form",
	61: "Web Resource",
	62: "Site Map",
	63: "Connection Role",
	66: "Custom",
	70: "Field Security Profile",
	71: "Field Permission",
	78: "Process Trigger",
	80: "App Module",
	90: "Plugin Type",
	91: "Plugin Assembly",
	92: "Plugin Step",
}

// ComponentTypeName maps a solution component type code to its name.
func ComponentTypeName(code int) string {
	if name, ok := componentTypeNames[code]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (%d)", code)
}

const (
	solutionSelect  = "solutionid,uniquename,friendlyname,version,ismanaged,publisherid,description,installedon"
	componentSelect = "componenttype,objectid,solutioncomponentid,rootcomponentbehavior"
)

// Solutions lists every solution ordered by friendly name.
func (c *Client) Solutions(ctx context.Context) ([]Solution, error) {
	var resp ODataResponse[Solution]
	if err := c.getJSON(ctx, "solutions?$select="+solutionSelect+"&$orderby=friendlyname", &resp); err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// SolutionComponents lists the components of a solution.
func (c *Client) SolutionComponents(ctx context.Context, solutionID string) ([]SolutionComponent, error) {
	id, err := parseID(solutionID)
	if err != nil {
		return nil, err
	}
	var resp ODataResponse[SolutionComponent]
	endpoint := fmt.Sprintf("solutioncomponents?$filter=_solutionid_value eq %s&$select=%s", id, componentSelect)
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.Value, nil
}
