// Package builder runs the content pipeline: load, normalize, validate,
// derive the graph and assemble the snapshot.
package builder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/packindex/internal/graph"
	"github.com/starford/packindex/internal/loader"
	"github.com/starford/packindex/internal/models"
	"github.com/starford/packindex/internal/normalize"
	"github.com/starford/packindex/internal/storage"
	"github.com/starford/packindex/internal/validate"
)

// Options configures a build.
type Options struct {
	// Root is the directory holding one subdirectory per pack.
	Root string
	// SourceBase prefixes the source paths reported for documents.
	// Defaults to Root.
	SourceBase string
	Extensions []string
	// DefaultPack selects the default pack when it names an existing pack.
	DefaultPack string
	// Parallelism bounds the number of packs built at once. Defaults to 1.
	Parallelism int
	Logger      *slog.Logger
	Now         func() time.Time
}

// Result is the outcome of a successful build.
type Result struct {
	Snapshot *models.Snapshot
	Warnings []models.Warning
}

// SkillCount returns the number of skills across all packs.
func (r *Result) SkillCount() int {
	n := 0
	for _, p := range r.Snapshot.Packs {
		n += len(p.Skills)
	}
	return n
}

// UnitCount returns the number of units across all packs.
func (r *Result) UnitCount() int {
	n := 0
	for _, p := range r.Snapshot.Packs {
		n += len(p.Units)
	}
	return n
}

// Build reads every pack under opts.Root and assembles a snapshot. A content
// error in any pack fails the whole build; errors of all failing packs are
// joined in pack order.
func Build(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	base := opts.SourceBase
	if base == "" {
		base = opts.Root
	}

	store, err := storage.NewFS(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	ld := loader.New(store, opts.Extensions, base)

	ids, err := ld.PackIDs()
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	packs := make([]*models.PackIndex, len(ids))
	warns := make([][]models.Warning, len(ids))
	errs := make([]error, len(ids))

	var g errgroup.Group
	g.SetLimit(max(opts.Parallelism, 1))
	for i, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			packs[i], warns[i], errs[i] = buildPack(ld, id)
			return nil
		})
	}
	_ = g.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	snap := &models.Snapshot{
		GeneratedAt:   now().UTC(),
		DefaultPackID: defaultPack(ids, opts.DefaultPack),
		Packs:         make(map[string]*models.PackIndex, len(ids)),
	}
	for i, id := range ids {
		snap.Packs[id] = packs[i]
	}
	def := snap.DefaultPack()
	snap.Skills = def.Skills
	snap.SkillsByID = def.SkillsByID

	res := &Result{Snapshot: snap}
	for _, w := range warns {
		res.Warnings = append(res.Warnings, w...)
	}
	for _, w := range res.Warnings {
		logger.Warn("build: "+w.Message,
			slog.String("pack", w.Pack),
			slog.String("kind", w.Kind),
			slog.String("id", w.ID),
			slog.String("source", w.Source))
	}
	return res, nil
}

// defaultPack returns override when it names an existing pack, else the first pack.
func defaultPack(ids []string, override string) string {
	for _, id := range ids {
		if id == override {
			return id
		}
	}
	return ids[0]
}

func buildPack(ld *loader.Loader, packID string) (*models.PackIndex, []models.Warning, error) {
	var warns []models.Warning

	m, err := ld.Manifest(packID)
	if err != nil {
		return nil, nil, err
	}
	if m.ID != packID {
		warns = append(warns, models.Warning{
			Pack:    packID,
			Kind:    models.WarnManifestIDDiffer,
			Entity:  "manifest",
			ID:      m.ID,
			Message: fmt.Sprintf("manifest id %q differs from pack directory %q; using the directory name", m.ID, packID),
		})
	}
	if err := validate.Manifest(packID, m); err != nil {
		return nil, nil, err
	}

	skillDocs, err := ld.Skills(packID)
	if err != nil {
		return nil, nil, err
	}
	skills := make([]*models.Skill, 0, len(skillDocs))
	for _, doc := range skillDocs {
		s, w, err := normalize.Skill(packID, doc)
		if err != nil {
			return nil, nil, err
		}
		warns = append(warns, w...)
		skills = append(skills, s)
	}

	unitDocs, err := ld.Units(packID)
	if err != nil {
		return nil, nil, err
	}
	units := make([]*models.Unit, 0, len(unitDocs))
	for _, doc := range unitDocs {
		u, w, err := normalize.Unit(packID, doc)
		if err != nil {
			return nil, nil, err
		}
		warns = append(warns, w...)
		units = append(units, u)
	}

	if err := validate.Pack(packID, m, skills, units); err != nil {
		return nil, nil, err
	}

	gr := graph.Build(skills, units)
	gr.Apply(skills)
	if w := graph.UntaughtWarning(packID, gr.Untaught(skills)); w != nil {
		warns = append(warns, *w)
	}

	p := &models.PackIndex{
		Manifest:   *m,
		Skills:     skills,
		SkillsByID: make(map[string]*models.Skill, len(skills)),
		Units:      units,
		UnitsByID:  make(map[string]*models.Unit, len(units)),
		SkillLinks: gr.Links,
	}
	for _, s := range skills {
		p.SkillsByID[s.ID] = s
	}
	for _, u := range units {
		p.UnitsByID[u.ID] = u
	}
	return p, warns, nil
}
