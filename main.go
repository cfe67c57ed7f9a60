package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"housepredictor/ml"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "housepredictor",
		Usage: "predict house prices and price tiers from pre-trained models",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the YAML config file",
			},
		},
		Action: ServeAction,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "serve the prediction form and API",
				Action: ServeAction,
			},
			{
				Name:   "predict",
				Usage:  "run one prediction and print the report",
				Flags:  featureFlags(),
				Action: PredictAction,
			},
			{
				Name:   "check",
				Usage:  "load the model artifacts and report problems",
				Action: CheckAction,
			},
			{
				Name:  "history",
				Usage: "list recent predictions",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "number of predictions"},
				},
				Action: HistoryAction,
			},
		},
	}
}

// featureFlags declares one string flag per house field so that values
// are parsed by the same rules as the form.
func featureFlags() []cli.Flag {
	defaults := ml.DefaultValues()
	flags := make([]cli.Flag, 0, ml.NumFeatures)
	for _, field := range ml.Fields() {
		flags = append(flags, &cli.StringFlag{
			Name:  field.Key,
			Value: defaults[field.Key],
			Usage: fmt.Sprintf("recommended range %g-%g", field.Min, field.Max),
		})
	}
	return flags
}
