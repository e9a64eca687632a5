package analysis

import (
	"gonum.org/v1/gonum/mat"

	"github.com/tensorplex-labs/gesturebench/internal/dataset"
)

// CorrectByClass counts, per class, the trials whose prediction matches their class.
func CorrectByClass(scores mat.Matrix, layout dataset.Layout) []int {
	counts := make([]int, layout.Classes)
	for t, predicted := range Predict(scores) {
		if class := layout.ClassOf(t); predicted == class {
			counts[class]++
		}
	}
	return counts
}

// CorrectCounts returns the number of correct predictions of every recognizer.
func CorrectCounts(ds *dataset.Dataset) ([]int, error) {
	byClass, err := correctByRecognizer(ds)
	if err != nil {
		return nil, err
	}
	return sumCounts(byClass), nil
}

func sumCounts(byClass [][]int) []int {
	counts := make([]int, len(byClass))
	for r, perClass := range byClass {
		for _, c := range perClass {
			counts[r] += c
		}
	}
	return counts
}

func correctByRecognizer(ds *dataset.Dataset) ([][]int, error) {
	layout := ds.Layout()
	byClass := make([][]int, layout.Recognizers)
	for r := range layout.Recognizers {
		scores, err := ds.Scores(r)
		if err != nil {
			return nil, err
		}
		byClass[r] = CorrectByClass(scores, layout)
	}
	return byClass, nil
}
