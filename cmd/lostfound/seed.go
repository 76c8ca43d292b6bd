package main

import (
	"bufio"
	"fmt"
	"iter"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/lostfound/core"
	"github.com/poiesic/lostfound/intake"
)

// sampleReports are tab-separated status, name, contact and description.
var sampleReports = []string{
	"lost\tAna\tana@example.com\tBlack iPhone 12 with a cracked corner",
	"lost\tBen\tben@example.com\tBrown leather wallet",
	"lost\tChloe\tchloe@example.com\tSilver Casio watch",
	"lost\tDev\tdev@example.com\tBlue Jansport backpack with laptop inside",
	"lost\tEmi\temi@example.com\tWhite Apple AirPods in their case",
	"lost\tFarid\tfarid@example.com\tSet of keys on a red lanyard",
	"lost\tGwen\tgwen@example.com\tBlack iPhone charger",
	"found\tHugo\thugo@example.com\tBlack iPhone 12 found near the library",
	"found\tIris\tiris@example.com\tBrown wallet left on the bus",
	"found\tJon\tjon@example.com\tSilver watch in the gym changing room",
	"found\tKai\tkai@example.com\tRed bicycle chained outside the station",
	"found\tLea\tlea@example.com\tStudent ID card",
	"found\tMo\tmo@example.com\tGreen umbrella",
	"found\tNia\tnia@example.com\tWhite earbuds case",
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Load sample reports for development",
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:  "src",
				Usage: "File of tab-separated status, name, contact and description lines",
			},
		},
		Action: func(c *cli.Context) error {
			var source iter.Seq[string]
			if path := c.Path("src"); path != "" {
				lines, err := linesFromFile(path)
				if err != nil {
					return err
				}
				source = lines
			} else {
				source = linesFromSlice(sampleReports)
			}

			db, _, err := openDatabase(c)
			if err != nil {
				return err
			}
			defer db.Close()

			pipeline, err := db.NewPipeline()
			if err != nil {
				return err
			}

			created, matched := 0, 0
			for line := range source {
				if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
					continue
				}
				sub, err := parseSeedLine(line)
				if err != nil {
					return err
				}
				out, err := pipeline.Submit(c.Context, sub)
				if err != nil {
					return fmt.Errorf("seeding %q: %w", sub.Description, err)
				}
				created++
				if len(out.Matches) > 0 {
					matched++
				}
			}
			fmt.Fprintf(c.App.Writer, "Created %d reports (%d matched on arrival)\n", created, matched)
			return nil
		},
	}
}

func parseSeedLine(line string) (intake.Submission, error) {
	fields := strings.SplitN(line, "\t", 4)
	if len(fields) != 4 {
		return intake.Submission{}, fmt.Errorf("%w: seed line needs 4 tab-separated fields: %q", errUsage, line)
	}
	status, err := core.ParseStatus(fields[0])
	if err != nil {
		return intake.Submission{}, err
	}
	return intake.Submission{
		Name:        fields[1],
		Contact:     fields[2],
		Description: fields[3],
		Status:      status,
		OwnerID:     fields[2],
	}, nil
}

// linesFromFile returns an iterator over lines in a file.
func linesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}, nil
}

// linesFromSlice returns an iterator over a slice of strings.
func linesFromSlice(lines []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range lines {
			if !yield(line) {
				return
			}
		}
	}
}
