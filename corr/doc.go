/*Package corr computes Pearson and Signal correlation coefficients with
  streaming accumulators, and collects them per chromosome, per region and
  genome-wide.

  Pearson is the usual mean-centred coefficient.  Signal is its uncentred
  variant, sum(x*y) / sqrt(sum(x*x) * sum(y*y)), which compares the shape of
  two non-negative signals without subtracting their baselines.

  A coefficient whose denominator variance is zero is undefined; Value makes
  that state explicit instead of reporting NaN or zero.
*/
package corr
