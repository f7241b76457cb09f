// Package config defines the configuration of an SDK client.
//
// Whether the SDK is embedded in a Go program or driven from the command line,
// it uses the Config object defined in this package to carry retry, polling,
// transport and logging options. On top of these options, the client relies on
// a data directory, defined by Config.DataDir, where it expects to find a few
// additional files:
//
//  operator_key // a plain text "<type>:<hex>" private key (cf. hashgraph keygen).
//  network.json // the address book: a list of {account, address} entries.
//  network.yaml // (alternative to network.json) the same list in YAML.
//  journal_db // (optional) the badger database of submitted transactions.
package config
