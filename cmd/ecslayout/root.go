package main

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/edwinsyarief/archecs"
)

const (
	flagChunkBytes = "chunk-bytes"
	flagEntities   = "entities"
	flagLogLevel   = "log-level"
)

const example = `  ecslayout position=12:4 velocity=12:4
  ECS_CHUNK_BYTES=4096 ecslayout mass=4:4 --entities 10000`

// component is one name=size:align argument.
type component struct {
	name  string
	size  uint32
	align uint32
}

// report is what the command prints.
type report struct {
	Layout archecs.LayoutReport `json:"layout"`
	Stats  archecs.Stats        `json:"stats"`
}

// NewRootCmd builds the ecslayout command. Defaults for the chunk budget
// come from the ECS_* environment variables.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "ecslayout [name=size:align]...",
		Short:        "Print the chunk layout of an archetype",
		Example:      example,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := archecs.LoadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed(flagChunkBytes) {
				cfg.ChunkBytes, _ = cmd.Flags().GetInt(flagChunkBytes)
			}
			entities, _ := cmd.Flags().GetInt(flagEntities)
			levelName, _ := cmd.Flags().GetString(flagLogLevel)
			level, err := zerolog.ParseLevel(levelName)
			if err != nil {
				return eris.Wrapf(err, "invalid %s", flagLogLevel)
			}

			comps := make([]component, 0, len(args))
			for _, arg := range args {
				c, err := parseComponent(arg)
				if err != nil {
					return err
				}
				comps = append(comps, c)
			}
			r, err := buildReport(cfg, comps, entities, log.Logger.Level(level))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		},
	}
	cmd.Flags().Int(flagChunkBytes, archecs.DefaultChunkBytes, "chunk byte budget (overrides ECS_CHUNK_BYTES)")
	cmd.Flags().Int(flagEntities, 0, "number of entities to spawn into the archetype")
	cmd.Flags().String(flagLogLevel, zerolog.WarnLevel.String(), "log level")
	return cmd
}

// parseComponent parses "name=size:align". The alignment defaults to 1.
func parseComponent(arg string) (component, error) {
	name, shape, ok := strings.Cut(arg, "=")
	if !ok || name == "" {
		return component{}, eris.Errorf("component %q: want name=size:align", arg)
	}
	sizeText, alignText, hasAlign := strings.Cut(shape, ":")
	size, err := strconv.ParseUint(sizeText, 10, 32)
	if err != nil {
		return component{}, eris.Wrapf(err, "component %q: size", name)
	}
	align := uint64(1)
	if hasAlign {
		if align, err = strconv.ParseUint(alignText, 10, 32); err != nil {
			return component{}, eris.Wrapf(err, "component %q: alignment", name)
		}
	}
	return component{name: name, size: uint32(size), align: uint32(align)}, nil
}

func buildReport(cfg archecs.Config, comps []component, entities int, logger zerolog.Logger) (report, error) {
	w, err := archecs.NewWorld(cfg, archecs.WithLogger(logger))
	if err != nil {
		return report{}, err
	}
	defer w.Destroy()

	ids := make([]archecs.ComponentID, 0, len(comps))
	for _, c := range comps {
		id, err := w.RegisterComponent(c.name, c.size, c.align)
		if err != nil {
			return report{}, err
		}
		ids = append(ids, id)
	}
	b, err := archecs.NewBuilder(w, ids...)
	if err != nil {
		return report{}, err
	}
	if _, err := b.NewEntities(entities); err != nil {
		return report{}, err
	}
	w.LogLayout(zerolog.DebugLevel)
	return report{Layout: w.Layout(b.Archetype()), Stats: w.Stats()}, nil
}
