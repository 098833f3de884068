package app

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/specialistvlad/selfreg/internal/registry"
)

// writeListing prints every component and system in identity order.
// Unrunnable systems list no dependencies.
func writeListing(w io.Writer, reg *registry.Registry) error {
	for c := range reg.Components() {
		if _, err := fmt.Fprintf(w, "component name: %s, name_hash: %d, id: %d\n", c.Name, c.NameHash, c.ID); err != nil {
			return err
		}
	}
	for _, s := range reg.ListSystems() {
		if _, err := fmt.Fprintf(w, "system name: %s, id: %d, dependencies: [%s]\n", s.Name, s.ID, joinIDs(s.Resolved)); err != nil {
			return err
		}
	}
	return nil
}

func joinIDs(ids []registry.ComponentID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ", ")
}
