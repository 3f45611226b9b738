/*
Package session serializes access to simulated conversations.

The platform owns session state in production. Locally, the simulator keeps each
conversation in a ports.StateStore, and the Manager makes sure two turns of the
same conversation never interleave: a reference-counted in-process mutex per
session, optionally backed by a ports.DistributedLocker when several replicas
share one store.
*/
package session
