// Package data holds the observational datasets that CI tests consume.
//
// The skeleton learners never look inside a dataset: they only ask how many
// variables it has through the [Dataset] interface and pass the handle on to
// the CI test. Statistical tests such as Fisher-Z work on the concrete
// [Matrix] type, which stores samples as rows and variables as columns.
//
// # Reading and writing
//
// [ReadCSV] parses a CSV file with a header row of variable names. Every cell
// must be a finite number and every row must have the same width:
//
//	m, err := data.ImportCSV("samples.csv")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(m.NumVars(), m.NumSamples())
//
// [WriteCSV] writes the same format back, so generated datasets can be stored
// and reloaded without loss.
package data
