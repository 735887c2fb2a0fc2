package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

const ProfilesFile = ".roiatlas.cfg"

// Profile names a warehouse credentials file, e.g.
//
//	[marketing]
//	type = snowflake
//	path = ~/.config/roi/snowflake.yaml
type Profile struct {
	Name string
	Type string
	Path string
}

type Registry interface {
	GetProfiles(ctx context.Context) ([]Profile, error)
	GetProfile(ctx context.Context, name string) (*Profile, error)
	Resolve(ctx context.Context, profile string) (string, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

// DefaultProfilesPath returns $HOME/.roiatlas.cfg.
func DefaultProfilesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ProfilesFile
	}
	return filepath.Join(home, ProfilesFile)
}

// NewRegistry loads profiles from path. A missing file yields an empty registry.
func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.LooseLoad(path)
	if err != nil {
		return nil, err
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]Profile, error) {
	var profiles []Profile
	for _, section := range cr.cfg.Sections() {
		if section.Name() == ini.DefaultSection || len(section.Keys()) == 0 {
			continue
		}
		profiles = append(profiles, profileOf(section))
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetProfile(_ context.Context, name string) (*Profile, error) {
	section, err := cr.cfg.GetSection(name)
	if err != nil {
		return nil, fmt.Errorf("profile %s not found", name)
	}
	p := profileOf(section)
	if p.Path == "" {
		return nil, fmt.Errorf("profile %s has no path", name)
	}
	return &p, nil
}

// Resolve returns the credentials file of a named profile. Names that are not
// registered are treated as file paths.
func (cr *cfgRegistry) Resolve(ctx context.Context, profile string) (string, error) {
	if profile == "" {
		return "", fmt.Errorf("profile is required")
	}
	if cr.cfg.HasSection(profile) {
		p, err := cr.GetProfile(ctx, profile)
		if err != nil {
			return "", err
		}
		return p.Path, nil
	}
	return expandHome(profile), nil
}

func profileOf(section *ini.Section) Profile {
	return Profile{
		Name: section.Name(),
		Type: section.Key("type").String(),
		Path: expandHome(section.Key("path").String()),
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
