package forward

import "math"

func Sqrt(x Dual) Dual {
	v := math.Sqrt(x.Value)
	return Dual{v, x.Derivative * 0.5 / v}
}

func Exp(x Dual) Dual {
	v := math.Exp(x.Value)
	return Dual{v, x.Derivative * v}
}

func Log(x Dual) Dual {
	return Dual{math.Log(x.Value), x.Derivative / x.Value}
}

func Sin(x Dual) Dual {
	return Dual{math.Sin(x.Value), x.Derivative * math.Cos(x.Value)}
}

func Cos(x Dual) Dual {
	return Dual{math.Cos(x.Value), -x.Derivative * math.Sin(x.Value)}
}

func Tan(x Dual) Dual {
	v := math.Tan(x.Value)
	return Dual{v, x.Derivative * (1 + v*v)}
}

func Pow(x Dual, y float64) Dual {
	v := math.Pow(x.Value, y)
	return Dual{v, x.Derivative * y * math.Pow(x.Value, y-1)}
}
