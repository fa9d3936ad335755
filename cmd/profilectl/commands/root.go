package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/hisaab-profiles/internal/bootstrap"
	"github.com/GregMSThompson/hisaab-profiles/internal/config"
	"github.com/GregMSThompson/hisaab-profiles/internal/dto"
	"github.com/GregMSThompson/hisaab-profiles/internal/models"
	"github.com/GregMSThompson/hisaab-profiles/internal/services"
	"github.com/GregMSThompson/hisaab-profiles/pkg/logger"
)

type profileStore interface {
	LoadAll(ctx context.Context) services.Source
	Profiles() models.ProfileCollection
	Get(key string) (models.Profile, bool)
	GetOrDefault(key string) models.Profile
	GetBankList(key string) []string
}

type profileEditor interface {
	UpdateDetails(ctx context.Context, key string, req dto.UpdateProfileRequest) (dto.SaveProfileResult, error)
	UploadPhoto(ctx context.Context, key, photoData string) (dto.SaveProfileResult, error)
	RemovePhoto(ctx context.Context, key string) (dto.SaveProfileResult, error)
}

type participantService interface {
	List(ctx context.Context) []string
	Add(ctx context.Context, name string) ([]string, error)
	Remove(ctx context.Context, name string) ([]string, error)
}

// App is what the commands operate on.
type App struct {
	Profiles     profileStore
	Editor       profileEditor
	Participants participantService
	Log          *slog.Logger
	Close        func()
}

// Opener builds the App once flags are parsed.
type Opener func(ctx context.Context, cfg *config.Config) (*App, error)

// OpenBackends wires the App to the backends named in cfg and loads the
// profile collection once.
func OpenBackends(ctx context.Context, cfg *config.Config) (*App, error) {
	bs, err := bootstrap.Run(cfg)
	if err != nil {
		if bs != nil {
			bs.Close()
		}
		return nil, err
	}
	ctx = logger.ToContext(ctx, bs.Log)

	pstore := services.NewProfileStore(bs.Remote, bs.Cache)
	pstore.LoadAll(ctx)

	return &App{
		Profiles:     pstore,
		Editor:       services.NewProfileService(pstore),
		Participants: services.NewParticipantService(bs.Cache, cfg.DefaultParticipants),
		Log:          bs.Log,
		Close:        bs.Close,
	}, nil
}

type cli struct {
	open     Opener
	app      *App
	logLevel string
	asJSON   bool
}

func Execute() error {
	return NewRootCmd(OpenBackends).Execute()
}

func NewRootCmd(open Opener) *cobra.Command {
	c := &cli{open: open}

	root := &cobra.Command{
		Use:          "profilectl",
		Short:        "Inspect and edit shared Hisaab Kitaab profiles",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}
			cfg.LogLevel = c.logLevel
			if c.app, err = c.open(cmd.Context(), cfg); err != nil {
				return err
			}
			if c.app.Log != nil {
				cmd.SetContext(logger.ToContext(cmd.Context(), c.app.Log))
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.app != nil && c.app.Close != nil {
				c.app.Close()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	root.PersistentFlags().BoolVar(&c.asJSON, "json", false, "print JSON instead of text")

	root.AddCommand(c.listCmd(), c.getCmd(), c.saveCmd(), c.banksCmd(), c.colorCmd(), c.participantsCmd())
	return root
}

func (c *cli) printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) printResult(w io.Writer, res dto.SaveProfileResult) error {
	if c.asJSON {
		return c.printJSON(w, res)
	}
	if !res.Synced {
		fmt.Fprintf(w, "Saved %s locally only; remote store unavailable\n", res.Key)
		return nil
	}
	fmt.Fprintf(w, "Saved %s\n", res.Key)
	return nil
}
