// Package sheet reads and writes the tabular files tabtrans works on.
// XLSX workbooks go through excelize and CSV files through encoding/csv;
// both are exposed as a Table so the processor does not care which it has.
package sheet
