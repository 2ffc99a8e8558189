package cli

import (
	"fmt"
	"io"
)

const program = "vtsdemux"

// Help is the long description of the root command.
func Help(stdout io.Writer) {
	fmt.Fprintf(stdout, "Usage: \"%s [flags] VTS_nn_0.IFO [output.vob]\"\n", program)
	fmt.Fprintln(stdout, "")
	fmt.Fprintln(stdout, "With only an IFO file, print its program chains, cells and chapters.")
	fmt.Fprintln(stdout, "With an output file, write the sectors of one program chain and angle,")
	fmt.Fprintln(stdout, "read from the VTS_nn_1.VOB, VTS_nn_2.VOB, ... files next to the IFO.")
	fmt.Fprintln(stdout, "")
	fmt.Fprintln(stdout, "Sectors that navigation packs attribute to another cell are left out")
	fmt.Fprintln(stdout, "and reported on stderr.")
}

func HelpNothing(stdout io.Writer) {
	fmt.Fprintf(stdout, "Usage: \"%s [flags] VTS_nn_0.IFO [output.vob]\"\n", program)
	fmt.Fprintf(stdout, "\"%s --help\" for displaying more information\n", program)
}
