// Package processor translates one column of a spreadsheet or CSV file.
// It reads the column, sends the non-blank cells through a batch
// translator, writes the results into a new column next to the source and
// saves the augmented copy beside the input.
package processor
