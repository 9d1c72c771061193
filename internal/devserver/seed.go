package devserver

import (
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/dmitrijs2005/mydrive/internal/devserver/httpapi"
)

// Seed is the content of a seed file:
//
//	[[users]]
//	username = "alice"
//	email = "alice@example.com"
//	password = "secret"
//
//	[[groups]]
//	name = "team"
//	password = "team-secret"
//	creator = "alice"
//	members = ["bob"]
type Seed struct {
	Users  []SeedUser  `toml:"users"`
	Groups []SeedGroup `toml:"groups"`
}

type SeedUser struct {
	Username string `toml:"username"`
	Email    string `toml:"email"`
	Password string `toml:"password"`
}

type SeedGroup struct {
	Name     string   `toml:"name"`
	Password string   `toml:"password"`
	Creator  string   `toml:"creator"`
	Members  []string `toml:"members"`
}

// ReadSeed decodes a TOML seed file. Unknown keys are an error.
func ReadSeed(path string) (*Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	var s Seed
	md, err := toml.NewDecoder(f).Decode(&s)
	if err != nil {
		return nil, fmt.Errorf("reading seed from %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("reading seed from %s: unknown keys %v", path, undecoded)
	}
	return &s, nil
}

// Apply creates the seed's users, then its groups with their members.
func (s *Seed) Apply(ctx context.Context, store httpapi.Storage) error {
	for _, u := range s.Users {
		if _, err := store.AddUser(ctx, u.Username, u.Email, u.Password); err != nil {
			return fmt.Errorf("seed user %q: %w", u.Username, err)
		}
	}
	for _, g := range s.Groups {
		grp, err := store.CreateGroup(ctx, g.Name, g.Password, g.Creator)
		if err != nil {
			return fmt.Errorf("seed group %q: %w", g.Name, err)
		}
		for _, m := range g.Members {
			if _, err := store.JoinGroup(ctx, grp.ID, g.Password, m); err != nil {
				return fmt.Errorf("seed group %q member %q: %w", g.Name, m, err)
			}
		}
	}
	return nil
}
