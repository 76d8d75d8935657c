package cmd

import (
	"strings"

	"github.com/geonmo/NMSSMPheno/internal/card"
	"github.com/geonmo/NMSSMPheno/internal/errs"
	"github.com/geonmo/NMSSMPheno/internal/program"
	"github.com/geonmo/NMSSMPheno/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// fieldList collects repeated --set name=value flags in command-line order.
type fieldList []card.Field

var _ pflag.Value = (*fieldList)(nil)

func (f *fieldList) String() string {
	parts := make([]string, len(*f))
	for i, field := range *f {
		parts[i] = field.Name + "=" + field.Value
	}
	return strings.Join(parts, ",")
}

func (f *fieldList) Set(v string) error {
	name, value, ok := strings.Cut(v, "=")
	if !ok || name == "" {
		return errs.Invalid("field %q must be name=value", v)
	}
	*f = append(*f, card.Field{Name: name, Value: value})
	return nil
}

func (f *fieldList) Type() string {
	return "name=value"
}

var (
	cardFields    fieldList
	cardSeparator string
	cardNevents   int
	cardIseed     int
	cardPythia8   string
	cardHepMC     string
)

var cardCmd = &cobra.Command{
	Use:   "card <template> [output]",
	Short: "Render a card with new field values",
	Long: `Copy a card, replacing the value of each field on every non-comment line
where the field name appears as a word. All other lines are kept byte for byte.

The output defaults to <template stem>_new<ext>. The MG5_aMC shortcuts
--nevents, --iseed, --pythia8 and --hepmc set the run card fields run_mg5.py
would set; --set fields are applied after them.`,
	Example: `  nmssmpheno card input_cards/ggh_4tau.txt --nevents 500 --iseed 3
  nmssmpheno card input_cards/ggh.cmnd out.cmnd --sep = --set Main:numberOfEvents=100`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := args[0]
		out := card.DefaultOutputPath(in)
		if len(args) == 2 {
			out = args[1]
		}

		fields, err := program.MG5CardFields(cardNevents, cardIseed, cardPythia8, cardHepMC)
		if err != nil {
			return err
		}
		fields = append(fields, cardFields...)
		if len(fields) == 0 {
			utils.PrintWarning("No fields given, %s will be a copy of %s", out, in)
		}
		for _, f := range fields {
			utils.PrintDebug("Setting %s for %s", utils.StyleInfo(f.Value), utils.StyleName(f.Name))
		}

		if err := card.RenderFile(in, out, fields, card.Options{Separator: cardSeparator}); err != nil {
			return err
		}
		utils.PrintSuccess("Writing new card to %s", utils.StylePath(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cardCmd)

	f := cardCmd.Flags()
	f.Var(&cardFields, "set", "Field to replace, as name=value (repeatable)")
	f.StringVar(&cardSeparator, "sep", "", "Separator between field name and value, e.g. =")
	f.IntVar(&cardNevents, "nevents", 0, "MG5_aMC: number of events")
	f.IntVar(&cardIseed, "iseed", 0, "MG5_aMC: random number generator seed")
	f.StringVar(&cardPythia8, "pythia8", "", "MG5_aMC: Pythia8 install directory")
	f.StringVar(&cardHepMC, "hepmc", "", "MG5_aMC: HepMC install directory")
}
