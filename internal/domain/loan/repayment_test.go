package loan

import "testing"

func TestSplitRepaymentPrincipalFirst(t *testing.T) {
	l := &Loan{Principal: 50, Total: 54, Left: 54}

	p, f, err := l.SplitRepayment(30)
	if err != nil || p != 30 || f != 0 {
		t.Fatalf("first split = %d/%d, %v", p, f, err)
	}
	l.Left = 24 // 30 repaid

	p, f, err = l.SplitRepayment(24)
	if err != nil || p != 20 || f != 4 {
		t.Fatalf("final split = %d/%d, %v", p, f, err)
	}
}

func TestSplitRepaymentFullAtOnce(t *testing.T) {
	l := &Loan{Principal: 50, Total: 54, Left: 54}
	p, f, err := l.SplitRepayment(54)
	if err != nil || p != 50 || f != 4 {
		t.Fatalf("split = %d/%d, %v", p, f, err)
	}
}

func TestTerminal(t *testing.T) {
	l := &Loan{}
	if l.Terminal() {
		t.Fatal("fresh loan must not be terminal")
	}
	l.IsPayed = true
	if !l.Terminal() {
		t.Fatal("repaid loan must be terminal")
	}
	l = &Loan{Settled: true}
	if !l.Terminal() {
		t.Fatal("settled loan must be terminal")
	}
}
