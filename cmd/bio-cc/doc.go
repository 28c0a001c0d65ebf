/*
bio-cc computes correlation coefficients between a primary genomic file and
one or more secondary files.

	bio-cc -gen hg38.chrom.sizes a.wig b.wig c.wig
	bio-cc -gen hg38.fa -fbed peaks.bed -sort CC a.bedgraph b.bedgraph
	bio-cc -gen hg38.chrom.sizes -align -cc P,S -pr-cc IND,TOT a.bam b.bam

The kind of an input is taken from its extension, with an optional .gz:

	.wig, .bedgraph, .bdg  coverage, correlated bin by bin at -space resolution
	.bam                   alignments, correlated by read centre density
	.bed                   features, correlated as 0/1 base membership;
	                       alignments with -align

The secondary files must be of the same kind as the primary one.  Each pair is
compared over the chromosomes present in both files; a pair without common
chromosomes is skipped.

Pearson (P) coefficients centre the signals on their means, signal (S)
coefficients do not.  With -pr-cc IND one line is printed per chromosome; with
TOT a genome-wide coefficient is added.  With -fbed, or when -gen is a FASTA
file with gaps, coverage and density are correlated within features (or
gap-free regions) only, and -sort and -bin-width print per-feature results.
*/
package main
