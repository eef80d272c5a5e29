package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestMSE(t *testing.T) {
	tests := []struct {
		name      string
		yTrue     *mat.VecDense
		yPred     *mat.Dense
		want      float64
		tolerance float64
		wantErr   bool
	}{
		{
			name:      "perfect prediction",
			yTrue:     mat.NewVecDense(5, []float64{1, 2, 3, 4, 5}),
			yPred:     mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5}),
			want:      0.0,
			tolerance: 1e-12,
		},
		{
			name:      "simple case",
			yTrue:     mat.NewVecDense(4, []float64{1, 2, 3, 4}),
			yPred:     mat.NewDense(4, 1, []float64{1.5, 2.5, 2.5, 3.5}),
			want:      0.25, // ((0.5)^2 * 4) / 4
			tolerance: 1e-12,
		},
		{
			name:    "dimension mismatch",
			yTrue:   mat.NewVecDense(3, []float64{1, 2, 3}),
			yPred:   mat.NewDense(2, 1, []float64{1, 2}),
			wantErr: true,
		},
		{
			name:    "empty vector",
			yTrue:   &mat.VecDense{},
			yPred:   mat.NewDense(1, 1, nil),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MSE(tt.yTrue, tt.yPred)
			if (err != nil) != tt.wantErr {
				t.Fatalf("MSE() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("MSE() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRMSE(t *testing.T) {
	yTrue := mat.NewVecDense(2, []float64{0, 0})
	yPred := mat.NewDense(2, 1, []float64{3, 4})

	got, err := RMSE(yTrue, yPred)
	if err != nil {
		t.Fatal(err)
	}
	want := math.Sqrt(12.5)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("RMSE() = %v, want %v", got, want)
	}
}

func TestMAE(t *testing.T) {
	yTrue := mat.NewVecDense(3, []float64{1, 2, 3})
	yPred := mat.NewDense(3, 1, []float64{2, 2, 1})

	got, err := MAE(yTrue, yPred)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-1.0) > 1e-12 {
		t.Errorf("MAE() = %v, want 1.0", got)
	}
}

func TestLogLoss_BinaryColumn(t *testing.T) {
	yTrue := mat.NewVecDense(2, []float64{1, 0})
	yPred := mat.NewDense(2, 1, []float64{0.9, 0.2})

	got, err := LogLoss(yTrue, yPred)
	if err != nil {
		t.Fatal(err)
	}
	want := -(math.Log(0.9) + math.Log(0.8)) / 2
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("LogLoss() = %v, want %v", got, want)
	}
}

func TestLogLoss_ProbabilityMatrix(t *testing.T) {
	yTrue := mat.NewVecDense(2, []float64{0, 1})
	yPred := mat.NewDense(2, 2, []float64{
		0.7, 0.3,
		0.4, 0.6,
	})

	got, err := LogLoss(yTrue, yPred)
	if err != nil {
		t.Fatal(err)
	}
	want := -(math.Log(0.7) + math.Log(0.6)) / 2
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("LogLoss() = %v, want %v", got, want)
	}
}

func TestLogLoss_ClipsZeroProbability(t *testing.T) {
	yTrue := mat.NewVecDense(1, []float64{1})
	yPred := mat.NewDense(1, 1, []float64{0})

	got, err := LogLoss(yTrue, yPred)
	if err != nil {
		t.Fatal(err)
	}
	if math.IsInf(got, 0) || math.IsNaN(got) {
		t.Errorf("LogLoss() must stay finite under p=0, got %v", got)
	}
}

func TestZeroOne(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{0, 1, 1, 0})
	yPred := mat.NewDense(4, 1, []float64{0, 1, 0, 0})

	got, err := ZeroOne(yTrue, yPred)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-0.25) > 1e-12 {
		t.Errorf("ZeroOne() = %v, want 0.25", got)
	}
}
