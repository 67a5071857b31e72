// internal/config/environments.go
package config

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeURL trims whitespace and trailing slashes and adds https:// when
// no scheme is given.
func NormalizeURL(raw string) string {
	u := strings.TrimRight(strings.TrimSpace(raw), "/")
	if u == "" {
		return ""
	}
	if !strings.Contains(u, "://") {
		u = "https://" + u
	}
	return u
}

// NameFromURL derives a short environment name from its host, e.g.
// https://contoso.crm4.dynamics.com -> contoso.
func NameFromURL(raw string) string {
	u, err := url.Parse(NormalizeURL(raw))
	if err != nil || u.Hostname() == "" {
		return raw
	}
	host := u.Hostname()
	if i := strings.IndexByte(host, '.'); i > 0 {
		return host[:i]
	}
	return host
}

// GetEnvironment retrieves an environment by name
func (c *Config) GetEnvironment(name string) (*Environment, error) {
	for i := range c.Environments {
		if c.Environments[i].Name == name {
			return &c.Environments[i], nil
		}
	}
	return nil, fmt.Errorf("environment not found: %s", name)
}

// CurrentEnvironment returns the default environment, or the first one
func (c *Config) CurrentEnvironment() (*Environment, bool) {
	if env, err := c.GetEnvironment(c.DefaultEnvironment); err == nil {
		return env, true
	}
	if len(c.Environments) > 0 {
		return &c.Environments[0], true
	}
	return nil, false
}

// AddEnvironment adds e and makes it current. An environment with the same
// URL is reused rather than duplicated.
func (c *Config) AddEnvironment(e Environment) error {
	e.URL = NormalizeURL(e.URL)
	if e.URL == "" {
		return fmt.Errorf("environment url is required")
	}
	if e.Name == "" {
		e.Name = NameFromURL(e.URL)
	}

	for _, existing := range c.Environments {
		if strings.EqualFold(existing.URL, e.URL) {
			c.DefaultEnvironment = existing.Name
			return c.Save()
		}
		if existing.Name == e.Name {
			return fmt.Errorf("environment already exists: %s", e.Name)
		}
	}
	c.Environments = append(c.Environments, e)
	c.DefaultEnvironment = e.Name
	return c.Save()
}

// UseEnvironment makes name the current environment
func (c *Config) UseEnvironment(name string) error {
	if _, err := c.GetEnvironment(name); err != nil {
		return err
	}
	c.DefaultEnvironment = name
	return c.Save()
}

// UpdateEnvironment updates an existing environment
func (c *Config) UpdateEnvironment(name string, e Environment) error {
	e.URL = NormalizeURL(e.URL)
	for i := range c.Environments {
		if c.Environments[i].Name == name {
			c.Environments[i] = e
			if c.DefaultEnvironment == name {
				c.DefaultEnvironment = e.Name
			}
			return c.Save()
		}
	}
	return fmt.Errorf("environment not found: %s", name)
}

// DeleteEnvironment removes an environment from the config
func (c *Config) DeleteEnvironment(name string) error {
	for i := range c.Environments {
		if c.Environments[i].Name == name {
			c.Environments = append(c.Environments[:i], c.Environments[i+1:]...)
			if c.DefaultEnvironment == name {
				c.DefaultEnvironment = ""
			}
			return c.Save()
		}
	}
	return fmt.Errorf("environment not found: %s", name)
}

// ListEnvironments returns all environment names
func (c *Config) ListEnvironments() []string {
	names := make([]string, len(c.Environments))
	for i, e := range c.Environments {
		names[i] = e.Name
	}
	return names
}
