// Package creditrisk builds the characteristic function of aggregate portfolio
// credit loss.
//
// Each loan contributes the log of its conditional loss characteristic
// function. Contributions are accumulated additively in log space by
// EconomicCapitalAttributes, one slot per (frequency sample, systemic mixing
// state), which keeps portfolios with very many obligors inside the range of
// float64. The systemic factor is integrated out at the end by a
// MixingTransform, producing the unconditional characteristic function ready
// for cosine-series inversion.
//
// The transforms are small value types rather than closures so the parameters
// they capture are visible in their fields:
//
//   - LGDTransform: transform of the loss given default (DeterministicLGD)
//   - LiquidityTransform: perturbation of the frequency argument (LiquidityRisk)
//   - LogLPMCF: one loan's log-CF contribution built from the two above
//   - MixingTransform: systemic factor MGF applied to the accumulated values (GammaMixing)
//
// # Usage
//
//	params := creditrisk.PortfolioParameters{...}
//	xMin := params.XMin()
//	fn := creditrisk.LogLPMCF{
//	    LGD:       creditrisk.DeterministicLGD{},
//	    Liquidity: params.Liquidity(xMin),
//	}
//	acc := creditrisk.NewEconomicCapitalAttributes(params.NumU, 1)
//	acc.ProcessLoan(params.AggregateLoan(), u, fn)
//	cf := acc.FullCF(params.Mixing())
//
// An explicit loan book replaces the aggregate loan with ProcessLoans and
// sizes the axis with BookXMin.
package creditrisk
