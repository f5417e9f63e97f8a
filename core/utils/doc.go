// Package utils provides small helpers shared by the commands and features:
// parsing column index lists and normalising paths received from file pickers.
package utils
