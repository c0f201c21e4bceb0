package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/zones"
)

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "List drop zone presets",
	Long:  `List the named, pre-surveyed drop zone presets with their launch and separation values`,
	RunE:  listZones,
}

func init() {
	zonesCmd.Flags().String("file", "", "additional zone presets file (YAML)")
}

func listZones(cmd *cobra.Command, _ []string) error {
	all := zones.Builtin()

	if path, _ := cmd.Flags().GetString("file"); path != "" {
		extra, err := zones.LoadFile(path)
		if err != nil {
			return err
		}
		all = append(all, extra...)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tREGION\tLAUNCH\tAZIMUTH\tSEP ALT (m)")
	_, _ = fmt.Fprintln(w, "--\t----\t------\t------\t-------\t-----------")

	for _, z := range all {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%.5f, %.5f\t%.1f°\t%.0f\n",
			z.ID, z.Name, z.Region, z.LaunchLat, z.LaunchLon, z.Azimuth, z.SepAltitude)
	}
	return w.Flush()
}
