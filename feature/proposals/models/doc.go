// Package models defines the persisted shape of legislative proposals.
//
// Column names follow the scraper's payload (donem_yasama, esas_no, tarih,
// milletvekili_veya_kurum, ozet, durum, linkler). esas_no carries a unique index;
// it is the key that arbitrates concurrent inserts of the same proposal.
package models
