// Package dataset reads question/answer CSV files and turns them into
// instruction-tuning JSON datasets registered in dataset_info.json.
package dataset
