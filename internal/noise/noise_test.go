package noise

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestSampleRange(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(kind, func(t *testing.T) {
			f, err := New(kind, 7)
			if err != nil {
				t.Fatalf("new %s: %v", kind, err)
			}
			for i := 0; i < 2000; i++ {
				x := float64(i) * 0.037
				for _, v := range []float64{f.Sample(x, 0), f.Sample(0, x), f.Sample(x, x*0.5)} {
					if v < 0 || v > 1 {
						t.Fatalf("sample %f out of [0,1] at x=%f", v, x)
					}
				}
			}
		})
	}
}

func TestSameSeedSameField(t *testing.T) {
	for _, kind := range Kinds() {
		a, _ := New(kind, 42)
		b, _ := New(kind, 42)
		for i := 0; i < 100; i++ {
			x := float64(i) * 0.02
			if a.Sample(x, 0) != b.Sample(x, 0) {
				t.Fatalf("%s: samples differ at x=%f", kind, x)
			}
		}
	}
}

func TestFieldIsCoherent(t *testing.T) {
	f := NewPerlin(3)
	prev := f.Sample(0.001, 0)
	for i := 1; i < 500; i++ {
		v := f.Sample(0.001+float64(i)*0.002, 0)
		if d := v - prev; d > 0.05 || d < -0.05 {
			t.Fatalf("jump of %f between neighbouring samples", d)
		}
		prev = v
	}
}

func TestNewDefaultAndUnknown(t *testing.T) {
	f, err := New("", 1)
	if err != nil {
		t.Fatalf("default kind: %v", err)
	}
	if _, ok := f.(*Perlin); !ok {
		t.Errorf("expected perlin default, got %T", f)
	}

	_, err = New("worley", 1)
	if !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

type flat float64

func (f flat) Sample(x, y float64) float64 { return float64(f) }

func TestRegisterWhileBuilding(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		kind := fmt.Sprintf("flat-%d", i)
		go func() {
			defer wg.Done()
			Register(kind, func(int64) Field { return flat(0.5) })
		}()
		go func(seed int64) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, err := New(DefaultKind, seed); err != nil {
					t.Errorf("new: %v", err)
					return
				}
				_ = Kinds()
			}
		}(int64(i))
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		f, err := New(fmt.Sprintf("flat-%d", i), 1)
		if err != nil {
			t.Fatalf("registered kind missing: %v", err)
		}
		if v := f.Sample(3, 4); v != 0.5 {
			t.Errorf("expected 0.5, got %f", v)
		}
	}
}
